package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 5000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseSessionID(t *testing.T) {
	tests := []struct {
		input    string
		expected SessionID
		hasError bool
	}{
		{"abc-123", SessionID("abc-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSessionID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseSessionID(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSessionID(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseSessionID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSnapshotHashShort(t *testing.T) {
	h := NewSnapshotHash([]byte("records"))
	if len(h.String()) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h.String()))
	}
	if h.Short() != h.String()[:12] {
		t.Errorf("Short() = %q", h.Short())
	}
	if !Hash(h).Equals(Hash(NewSnapshotHash([]byte("records")))) {
		t.Error("hash of identical data should be equal")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	err := NewRecordError(ErrNonNumeric, 3, "price is NaN")
	if !IsValidationError(err) {
		t.Error("non-numeric error should be a validation error")
	}
	if !errors.Is(err, ErrNonNumeric) {
		t.Error("expected errors.Is to match ErrNonNumeric")
	}
	if IsTrainingError(err) || IsFuzzyError(err) || IsNotTrainedError(err) {
		t.Error("validation error matched an unrelated kind")
	}
	if !IsTrainingError(NewTrainingError("rank zero")) {
		t.Error("expected training error")
	}
	if !IsFuzzyError(NewFuzzyError("price", "empty")) {
		t.Error("expected fuzzy error")
	}
	if !IsNotFoundError(ErrSessionNotFound) {
		t.Error("session not found should be a not found error")
	}
}
