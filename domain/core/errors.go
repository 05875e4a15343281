package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrSessionNotFound  = fmt.Errorf("%w: session", ErrNotFound)
	ErrResponseNotFound = fmt.Errorf("%w: evaluation response", ErrNotFound)

	// Pipeline errors
	ErrDataValidation  = errors.New("data validation failed")
	ErrModelNotTrained = errors.New("model not trained")
	ErrModelTraining   = errors.New("model training failed")
	ErrFuzzyAnalysis   = errors.New("fuzzy analysis failed")

	// Data validation refinements
	ErrMissingField     = fmt.Errorf("%w: missing field", ErrDataValidation)
	ErrNonNumeric       = fmt.Errorf("%w: non-numeric value", ErrDataValidation)
	ErrUnordered        = fmt.Errorf("%w: timestamps not strictly increasing", ErrDataValidation)
	ErrInsufficientRows = fmt.Errorf("%w: insufficient rows for lookback", ErrDataValidation)
	ErrSchemaMismatch   = fmt.Errorf("%w: feature schema mismatch", ErrDataValidation)
	ErrMarketError      = fmt.Errorf("%w: market context carries an error", ErrDataValidation)
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDataValidation, field, reason)
}

func NewRecordError(base error, index int, reason string) error {
	return fmt.Errorf("%w at record %d: %s", base, index, reason)
}

func NewTrainingError(reason string) error {
	return fmt.Errorf("%w: %s", ErrModelTraining, reason)
}

func NewFuzzyError(metric string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrFuzzyAnalysis, metric, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrDataValidation)
}

func IsNotTrainedError(err error) bool {
	return errors.Is(err, ErrModelNotTrained)
}

func IsTrainingError(err error) bool {
	return errors.Is(err, ErrModelTraining)
}

func IsFuzzyError(err error) bool {
	return errors.Is(err, ErrFuzzyAnalysis)
}
