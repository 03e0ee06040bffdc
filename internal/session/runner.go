package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/misterclayt0n/stretchcoach/internal/coach"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
	"github.com/rs/zerolog"
)

// AnimationFrame is the tick cadence, one display frame at 60 Hz.
const AnimationFrame = time.Second / 60

// Adapter is the part of pose.Adapter the runner drives.
type Adapter interface {
	Initialize(ctx context.Context) error
	NextPredictions(ctx context.Context) ([]models.Prediction, error)
	Surface() (pose.Surface, bool)
	Teardown() error
}

// Presenter shows state to the user.
type Presenter interface {
	Render(s coach.State)
	AttachSurface(s pose.Surface) bool
}

// Options holds the dependencies of a Runner.
type Options struct {
	Adapter   Adapter
	Machine   *coach.Machine
	Presenter Presenter
	Logger    zerolog.Logger

	// Starts delivers user start/restart requests.
	Starts <-chan struct{}
	// AutoStart starts the first session as soon as the adapter is ready.
	AutoStart bool
	// ExitOnFinish stops the loop once the routine is finished.
	ExitOnFinish bool
	// Frame overrides AnimationFrame.
	Frame time.Duration
}

type Runner struct {
	opts   Options
	logger zerolog.Logger
}

func NewRunner(opts Options) *Runner {
	if opts.Frame <= 0 {
		opts.Frame = AnimationFrame
	}
	return &Runner{
		opts:   opts,
		logger: opts.Logger.With().Str("component", "runner").Logger(),
	}
}

// Run blocks until ctx is cancelled, the prediction source closes, or (with
// ExitOnFinish) the routine ends. An initialization failure is rendered and
// returned.
func (r *Runner) Run(ctx context.Context) error {
	m := r.opts.Machine
	defer func() {
		m.Stop()
		if err := r.opts.Adapter.Teardown(); err != nil {
			r.logger.Warn().Err(err).Msg("Teardown failed")
		}
	}()

	m.Subscribe(r.present)
	r.present(m.Snapshot())

	m.Preparing()
	if err := r.opts.Adapter.Initialize(ctx); err != nil {
		if ferr := m.Fail(err); ferr != nil {
			r.logger.Warn().Err(ferr).Msg("Could not record failure")
		}
		return err
	}
	if err := m.Ready(); err != nil {
		return err
	}

	if r.opts.AutoStart {
		if err := m.Start(); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(r.opts.Frame)
	defer ticker.Stop()

	for {
		if r.opts.ExitOnFinish && m.Snapshot().Phase == coach.PhaseFinished {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-r.opts.Starts:
			if !ok {
				r.opts.Starts = nil
				continue
			}
			if err := m.Start(); err != nil {
				r.logger.Debug().Err(err).Msg("Start ignored")
			}
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				if errors.Is(err, pose.ErrSourceClosed) {
					r.logger.Info().Err(err).Msg("Prediction source closed")
					return nil
				}
				if ctx.Err() != nil {
					return nil
				}
				// A failed tick never touches session state.
				r.logger.Warn().Err(err).Msg("Tick failed")
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context) error {
	phase := r.opts.Machine.Snapshot().Phase
	if phase != coach.PhaseReady && phase != coach.PhaseStretching {
		return nil
	}

	predictions, err := r.opts.Adapter.NextPredictions(ctx)
	if err != nil {
		return fmt.Errorf("next predictions: %w", err)
	}
	return r.opts.Machine.HandlePredictions(predictions)
}

// present renders s and keeps the camera surface attached while it is
// visible.
func (r *Runner) present(s coach.State) {
	if s.Phase == coach.PhaseReady || s.Phase == coach.PhaseStretching {
		if surface, ok := r.opts.Adapter.Surface(); ok {
			r.opts.Presenter.AttachSurface(surface)
		}
	}
	r.opts.Presenter.Render(s)
}
