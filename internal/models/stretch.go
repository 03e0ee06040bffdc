package models

import "time"

// Fixed coaching constants. None of these are user-editable.
const (
	// DefaultModelURL is the base location of the Teachable Machine model artifacts.
	DefaultModelURL = "https://teachablemachine.withgoogle.com/models/RIjix7VyF/"

	// PredictionThreshold is the probability the top prediction must exceed
	// to count as the target pose.
	PredictionThreshold = 0.85

	// SettleDelay is how long the completed count stays on screen before
	// the routine moves to the next stretch.
	SettleDelay = time.Second

	CameraWidth  = 300
	CameraHeight = 300
	CameraFlip   = true
)

type Stretch struct {
	Name         string `json:"name" toml:"name"` // Must match the classifier class name exactly.
	DisplayName  string `json:"display_name" toml:"display_name"`
	TargetReps   int    `json:"target_reps" toml:"target_reps"`
	Instructions string `json:"instructions" toml:"instructions"`
	Icon         string `json:"icon,omitempty" toml:"icon,omitempty"` // Presentation only.
}

type Prediction struct {
	Label       string  `json:"className" toml:"label"`
	Probability float64 `json:"probability" toml:"probability"`
}

// Top returns the prediction with the highest probability.
// Ties go to the earliest entry. ok is false for an empty list.
func Top(predictions []Prediction) (top Prediction, ok bool) {
	if len(predictions) == 0 {
		return Prediction{}, false
	}

	top = predictions[0]
	for _, p := range predictions[1:] {
		if p.Probability > top.Probability {
			top = p
		}
	}
	return top, true
}
