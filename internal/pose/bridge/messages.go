package bridge

import "github.com/misterclayt0n/stretchcoach/internal/models"

// Message types of the classifier bridge protocol.
const (
	TypeLoad        = "load"
	TypeLoaded      = "loaded"
	TypeWebcam      = "webcam"
	TypePlay        = "play"
	TypeReady       = "ready"
	TypeUpdate      = "update"
	TypeAck         = "ack"
	TypePredict     = "predict"
	TypePredictions = "predictions"
	TypeStop        = "stop"
	TypeError       = "error"
)

// Request is sent to the bridge.
type Request struct {
	Type     string `json:"type"`
	Model    string `json:"model,omitempty"`
	Metadata string `json:"metadata,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Flip     bool   `json:"flip,omitempty"`
	Sequence int64  `json:"sequence,omitempty"`
}

// Response is received from the bridge.
type Response struct {
	Type        string              `json:"type"`
	Sequence    int64               `json:"sequence,omitempty"`
	Classes     []string            `json:"classes,omitempty"`
	Predictions []models.Prediction `json:"predictions,omitempty"`
	Name        string              `json:"name,omitempty"`
	Message     string              `json:"message,omitempty"`
}
