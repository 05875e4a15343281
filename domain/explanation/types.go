package explanation

import (
	"energyexplain/domain/core"
	"energyexplain/domain/fuzzy"
	"energyexplain/domain/market"
	"energyexplain/domain/model"
)

// Explanation is the linguistic explanation and the inputs it was rendered
// from. It is recomputed per request and never mutated.
type Explanation struct {
	ID              core.ExplanationID `json:"id"`
	Text            string             `json:"text"`
	HTML            string             `json:"html,omitempty"`
	Colors          map[string]string  `json:"colors"`
	Analysis        fuzzy.Analysis     `json:"analysis"`
	Drivers         []market.Driver    `json:"drivers"`
	Interpretations []string           `json:"interpretations"`
}

// Bundle pairs the numerical and linguistic explanations of one snapshot.
type Bundle struct {
	SnapshotID core.SnapshotHash `json:"snapshot_id"`
	Numerical  model.Summary     `json:"numerical"`
	Linguistic Explanation       `json:"linguistic"`
}
