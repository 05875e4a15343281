package evaluation

import (
	"fmt"
	"strings"
	"time"

	"energyexplain/domain/core"
)

// Preference values accepted from participants.
const (
	PreferMethodA = "method_a"
	PreferMethodB = "method_b"
	PreferBoth    = "both"
	PreferNeither = "neither"
)

// Ratings are 1-5 scores given to one explanation method. Zero means unrated.
type Ratings struct {
	Helpfulness       int `json:"helpfulness"`
	Understandability int `json:"understandability"`
	Speed             int `json:"speed"`
	Practicality      int `json:"practicality"`
}

func (r Ratings) validate(method string) error {
	fields := []struct {
		name  string
		value int
	}{
		{"helpfulness", r.Helpfulness},
		{"understandability", r.Understandability},
		{"speed", r.Speed},
		{"practicality", r.Practicality},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 5 {
			return core.NewValidationError(method+"."+f.name, fmt.Sprintf("rating %d outside 1-5", f.value))
		}
	}
	return nil
}

// Response is one participant's comparison of the numerical (method A) and
// linguistic (method B) explanations.
type Response struct {
	ID            core.ResponseID `json:"id" db:"id"`
	Timestamp     time.Time       `json:"timestamp" db:"timestamp"`
	ParticipantID string          `json:"participant_id" db:"participant_id"`
	Preference    string          `json:"preference" db:"preference"`
	MethodA       Ratings         `json:"method_a"`
	MethodB       Ratings         `json:"method_b"`
	Comments      string          `json:"comments" db:"comments"`
	DataSource    string          `json:"data_source" db:"data_source"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Validate checks the required fields and rating ranges.
func (r Response) Validate() error {
	if strings.TrimSpace(r.ParticipantID) == "" {
		return core.NewValidationError("participant_id", "required")
	}
	switch r.Preference {
	case PreferMethodA, PreferMethodB, PreferBoth, PreferNeither:
	default:
		return core.NewValidationError("preference", fmt.Sprintf("unknown value %q", r.Preference))
	}
	if err := r.MethodA.validate("method_a"); err != nil {
		return err
	}
	return r.MethodB.validate("method_b")
}

// MethodAverages are mean ratings for one method.
type MethodAverages struct {
	Helpfulness       float64 `json:"avg_helpfulness"`
	Understandability float64 `json:"avg_understandability"`
	Speed             float64 `json:"avg_speed"`
	Practicality      float64 `json:"avg_practicality"`
}

// Analytics aggregates all stored responses.
type Analytics struct {
	TotalResponses   int            `json:"total_responses"`
	MethodA          MethodAverages `json:"method_a"`
	MethodB          MethodAverages `json:"method_b"`
	PreferenceCounts map[string]int `json:"preference_counts"`
	DataSourceCounts map[string]int `json:"data_source_counts"`
}
