// Package coach implements the rep-counting state machine: it turns a stream
// of pose predictions into repetitions and walks the routine to the end.
package coach

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/rs/zerolog"
)

var (
	ErrCannotStart       = errors.New("session can only start when ready or finished")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrEmptyPredictions  = errors.New("empty prediction list")
)

// State is a snapshot of the coaching session.
type State struct {
	Phase          Phase
	SessionID      string
	StretchIndex   int
	RepCount       int
	Armed          bool
	Feedback       string
	LastPrediction *models.Prediction
	ErrorMessage   string

	routine models.Routine
}

// Stretch returns the active stretch.
func (s State) Stretch() (models.Stretch, bool) {
	return s.routine.At(s.StretchIndex)
}

// Total is the number of stretches in the routine.
func (s State) Total() int {
	return s.routine.Len()
}

// Progress is the completion of the active stretch in percent.
func (s State) Progress() float64 {
	st, ok := s.Stretch()
	if !ok || st.TargetReps <= 0 {
		return 0
	}
	return float64(s.RepCount) / float64(st.TargetReps) * 100
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces the timer source used for the settle delay.
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithSettleDelay replaces the pause between a completed stretch and the next.
func WithSettleDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// Machine owns the session state. Every exported method is one atomic
// transition; the settle timer goes through the same lock.
type Machine struct {
	mu        sync.Mutex
	routine   models.Routine
	threshold float64
	delay     time.Duration
	clock     Clock
	logger    zerolog.Logger

	state     State
	session   uint64
	pending   Timer
	listeners []func(State)
}

func New(routine models.Routine, opts ...Option) *Machine {
	m := &Machine{
		routine:   routine,
		threshold: models.PredictionThreshold,
		delay:     models.SettleDelay,
		clock:     realClock{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "coach").Logger()
	m.state = State{
		Phase:    PhaseLoading,
		Armed:    true,
		Feedback: feedbackLoading,
		routine:  routine,
	}
	return m
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs under the machine lock and must not call back into the Machine.
func (m *Machine) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() State {
	s := m.state
	if s.LastPrediction != nil {
		p := *s.LastPrediction
		s.LastPrediction = &p
	}
	return s
}

func (m *Machine) notifyLocked() {
	if len(m.listeners) == 0 {
		return
	}
	s := m.snapshotLocked()
	for _, fn := range m.listeners {
		fn(s)
	}
}

// Preparing marks that the model and camera are being acquired.
func (m *Machine) Preparing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseLoading {
		return
	}
	m.state.Feedback = feedbackPreparing
	m.notifyLocked()
}

// Ready moves Loading to Ready once the adapter is initialized.
func (m *Machine) Ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseLoading {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Phase, PhaseReady)
	}
	m.state.Phase = PhaseReady
	m.state.Feedback = feedbackReady
	m.logger.Info().Msg("Ready")
	m.notifyLocked()
	return nil
}

// Fail moves Loading or Ready to Error with the message mapped from err.
func (m *Machine) Fail(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseLoading && m.state.Phase != PhaseReady {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Phase, PhaseError)
	}
	m.cancelPendingLocked()
	m.state.Phase = PhaseError
	m.state.ErrorMessage = ErrorMessage(err)
	m.logger.Error().Err(err).Msg("Initialization failed")
	m.notifyLocked()
	return nil
}

// Start begins a new session from the first stretch.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Phase.CanStart() {
		return fmt.Errorf("%w (phase %s)", ErrCannotStart, m.state.Phase)
	}

	m.cancelPendingLocked()
	m.session++
	m.state = State{
		Phase:     PhaseStretching,
		SessionID: uuid.New().String(),
		Armed:     true,
		routine:   m.routine,
	}

	first, ok := m.routine.At(0)
	if !ok {
		m.state.Phase = PhaseFinished
		m.state.Feedback = feedbackFinished
	} else {
		m.state.Feedback = introFeedback(first)
	}

	m.logger.Info().
		Str("session", m.state.SessionID).
		Int("stretches", m.routine.Len()).
		Msg("Session started")
	m.notifyLocked()
	return nil
}

// HandlePredictions runs one tick of rep counting.
func (m *Machine) HandlePredictions(predictions []models.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseStretching {
		return nil
	}
	stretch, ok := m.routine.At(m.state.StretchIndex)
	if !ok {
		return nil
	}
	// Completed stretch waits for the pending advance.
	if m.state.RepCount >= stretch.TargetReps {
		return nil
	}

	top, ok := models.Top(predictions)
	if !ok {
		return ErrEmptyPredictions
	}
	m.state.LastPrediction = &top

	isTargetPose := top.Label == stretch.Name && top.Probability > m.threshold

	switch {
	case isTargetPose && m.state.Armed:
		m.state.RepCount++
		m.state.Armed = false
		m.state.Feedback = feedbackCounted
		m.logger.Debug().
			Str("stretch", stretch.Name).
			Int("reps", m.state.RepCount).
			Float64("probability", top.Probability).
			Msg("Rep counted")

		if m.state.RepCount == stretch.TargetReps {
			m.scheduleAdvanceLocked(m.session, m.state.StretchIndex)
		}
	case !isTargetPose && !m.state.Armed:
		m.state.Armed = true
		m.state.Feedback = rearmFeedback(stretch)
	}

	m.notifyLocked()
	return nil
}

func (m *Machine) scheduleAdvanceLocked(session uint64, index int) {
	m.cancelPendingLocked()
	m.pending = m.clock.AfterFunc(m.delay, func() {
		m.advance(session, index)
	})
}

// advance moves past a completed stretch. Firings for another session or
// stretch, or before the target is reached, do nothing.
func (m *Machine) advance(session uint64, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseStretching || m.session != session || m.state.StretchIndex != index {
		return
	}
	stretch, ok := m.routine.At(index)
	if !ok || m.state.RepCount < stretch.TargetReps {
		return
	}
	m.pending = nil

	if index < m.routine.Len()-1 {
		next, _ := m.routine.At(index + 1)
		m.state.StretchIndex = index + 1
		m.state.RepCount = 0
		m.state.Armed = true
		m.state.Feedback = introFeedback(next)
		m.logger.Info().
			Str("session", m.state.SessionID).
			Str("stretch", next.Name).
			Int("index", index+1).
			Msg("Next stretch")
	} else {
		m.state.Phase = PhaseFinished
		m.state.Feedback = feedbackFinished
		m.logger.Info().Str("session", m.state.SessionID).Msg("Routine finished")
	}
	m.notifyLocked()
}

// Stop cancels a pending stretch advance.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelPendingLocked()
}

func (m *Machine) cancelPendingLocked() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}
