package pose

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/rs/zerolog"
)

// AdapterOptions configures an Adapter.
type AdapterOptions struct {
	Library  Library
	ModelURL string // Base location; model.json and metadata.json are resolved against it.
	Width    int
	Height   int
	Flip     bool
	Logger   zerolog.Logger
}

// Adapter owns the loaded model and the camera surface.
type Adapter struct {
	opts   AdapterOptions
	logger zerolog.Logger

	mu       sync.Mutex
	model    Model
	webcam   Webcam
	closed   bool
	stopOnce sync.Once
	stopErr  error
}

// NewAdapter creates an adapter. Zero camera options fall back to the fixed
// 300x300 mirrored capture.
func NewAdapter(opts AdapterOptions) *Adapter {
	if opts.ModelURL == "" {
		opts.ModelURL = models.DefaultModelURL
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width = models.CameraWidth
		opts.Height = models.CameraHeight
		opts.Flip = models.CameraFlip
	}

	return &Adapter{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "pose-adapter").Logger(),
	}
}

// Initialize loads the model and starts the camera. It is a no-op once
// initialized. Every failure is an *InitError.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return &InitError{Kind: Unknown, Err: ErrClosed}
	}
	if a.model != nil && a.webcam != nil {
		return nil
	}

	if a.opts.Library == nil {
		return &InitError{Kind: Unknown, Err: ErrLibraryUnavailable}
	}

	modelURL := a.opts.ModelURL + "model.json"
	metadataURL := a.opts.ModelURL + "metadata.json"

	a.logger.Info().Str("model", modelURL).Msg("Loading pose model")
	model, err := a.opts.Library.Load(ctx, modelURL, metadataURL)
	if err != nil {
		return Classify(fmt.Errorf("load model: %w", err))
	}

	webcam, err := a.opts.Library.NewWebcam(ctx, a.opts.Width, a.opts.Height, a.opts.Flip)
	if err != nil {
		return Classify(fmt.Errorf("create webcam: %w", err))
	}
	if err := webcam.Setup(ctx); err != nil {
		webcam.Stop()
		return Classify(fmt.Errorf("setup webcam: %w", err))
	}
	if err := webcam.Play(ctx); err != nil {
		webcam.Stop()
		return Classify(fmt.Errorf("play webcam: %w", err))
	}

	a.model = model
	a.webcam = webcam
	a.logger.Info().
		Int("width", a.opts.Width).
		Int("height", a.opts.Height).
		Bool("flip", a.opts.Flip).
		Msg("Camera ready")
	return nil
}

// NextPredictions advances the camera one frame and classifies it.
func (a *Adapter) NextPredictions(ctx context.Context) ([]models.Prediction, error) {
	a.mu.Lock()
	model, webcam := a.model, a.webcam
	a.mu.Unlock()

	if model == nil || webcam == nil {
		return nil, ErrNotInitialized
	}

	if err := webcam.Update(ctx); err != nil {
		return nil, fmt.Errorf("update frame: %w", err)
	}

	predictions, err := model.Predict(ctx, webcam)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(predictions) == 0 {
		return nil, ErrNoPredictions
	}
	return predictions, nil
}

// Surface returns the camera surface once initialized.
func (a *Adapter) Surface() (Surface, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.webcam == nil {
		return nil, false
	}
	return a.webcam, true
}

// Teardown stops the camera and drops the model. Only the first call
// releases anything; later calls return the first result.
func (a *Adapter) Teardown() error {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		webcam := a.webcam
		a.closed = true
		a.webcam = nil
		a.model = nil
		a.mu.Unlock()

		if webcam == nil {
			return
		}
		if err := webcam.Stop(); err != nil && !errors.Is(err, context.Canceled) {
			a.stopErr = fmt.Errorf("stop webcam: %w", err)
		}
		a.logger.Debug().Msg("Camera released")
	})
	return a.stopErr
}
