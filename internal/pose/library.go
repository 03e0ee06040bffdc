// Package pose wraps a pose-classification library and its camera surface
// behind an Adapter with an explicit initialize/teardown lifecycle.
package pose

import (
	"context"

	"github.com/misterclayt0n/stretchcoach/internal/models"
)

// Surface is a camera-backed drawable that a presenter can attach.
type Surface interface {
	Width() int
	Height() int
	Mirrored() bool
}

// Webcam is a live camera surface owned by a Library.
type Webcam interface {
	Surface
	Setup(ctx context.Context) error
	Play(ctx context.Context) error
	// Update advances the capture by one frame.
	Update(ctx context.Context) error
	Stop() error
}

// Model classifies the current frame of a surface.
type Model interface {
	// Predict returns one prediction per known class, in class order.
	Predict(ctx context.Context, s Surface) ([]models.Prediction, error)
}

// Library is the pose-classification backend (classifier bridge, script replay).
type Library interface {
	Load(ctx context.Context, modelURL, metadataURL string) (Model, error)
	NewWebcam(ctx context.Context, width, height int, flip bool) (Webcam, error)
}
