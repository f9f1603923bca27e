package models

import "time"

// Direction is the predicted price movement for an asset.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Outcome is the evaluation result of one tracked prediction.
type Outcome string

const (
	OutcomeHit     Outcome = "hit"
	OutcomeMiss    Outcome = "miss"
	OutcomePending Outcome = "pending"
)

// Prediction is one journal entry: a directional call on an asset made
// earlier in the day, judged against the live change_pct at summary time.
type Prediction struct {
	Asset        string    `json:"asset"`
	Direction    Direction `json:"direction"`
	ThresholdPct float64   `json:"threshold_pct,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
