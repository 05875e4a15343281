package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID     ID
	ResponseID    ID
	ExplanationID ID
)

func NewSessionID() SessionID         { return SessionID(NewID()) }
func NewResponseID() ResponseID       { return ResponseID(NewID()) }
func NewExplanationID() ExplanationID { return ExplanationID(NewID()) }

func (id SessionID) String() string     { return ID(id).String() }
func (id ResponseID) String() string    { return ID(id).String() }
func (id ExplanationID) String() string { return ID(id).String() }

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}

// ParseResponseID parses a string into ResponseID
func ParseResponseID(s string) (ResponseID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("response ID cannot be empty")
	}
	return ResponseID(s), nil
}
