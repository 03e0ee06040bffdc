// Package posetest provides an in-memory pose.Library for tests.
package posetest

import (
	"context"
	"errors"
	"sync"

	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
)

// ErrExhausted is returned by Predict once every queued frame was consumed.
var ErrExhausted = errors.New("posetest: no more frames")

// Library is a scripted pose.Library. Frames are served in order; a nil
// frame with a non-nil error entry makes that Predict call fail.
type Library struct {
	mu sync.Mutex

	LoadErr   error
	WebcamErr error
	SetupErr  error
	PlayErr   error

	frames []Frame

	LoadCalls   int
	WebcamCalls int
	StopCalls   int
	Updates     int

	webcam *Webcam
}

// Frame is one queued Predict result.
type Frame struct {
	Predictions []models.Prediction
	Err         error
}

func NewLibrary(frames ...[]models.Prediction) *Library {
	l := &Library{}
	for _, f := range frames {
		l.frames = append(l.frames, Frame{Predictions: f})
	}
	return l
}

// Push queues more frames.
func (l *Library) Push(frames ...Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, frames...)
}

// Remaining reports the number of frames not yet served.
func (l *Library) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func (l *Library) Stops() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.StopCalls
}

func (l *Library) Load(ctx context.Context, modelURL, metadataURL string) (pose.Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.LoadCalls++
	if l.LoadErr != nil {
		return nil, l.LoadErr
	}
	return &model{lib: l}, nil
}

func (l *Library) NewWebcam(ctx context.Context, width, height int, flip bool) (pose.Webcam, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.WebcamCalls++
	if l.WebcamErr != nil {
		return nil, l.WebcamErr
	}
	l.webcam = &Webcam{lib: l, width: width, height: height, flip: flip}
	return l.webcam, nil
}

type model struct {
	lib *Library
}

func (m *model) Predict(ctx context.Context, s pose.Surface) ([]models.Prediction, error) {
	m.lib.mu.Lock()
	defer m.lib.mu.Unlock()
	if len(m.lib.frames) == 0 {
		return nil, ErrExhausted
	}
	f := m.lib.frames[0]
	m.lib.frames = m.lib.frames[1:]
	return f.Predictions, f.Err
}

// Webcam is the fake camera surface.
type Webcam struct {
	lib           *Library
	width, height int
	flip          bool
}

func (w *Webcam) Width() int     { return w.width }
func (w *Webcam) Height() int    { return w.height }
func (w *Webcam) Mirrored() bool { return w.flip }

func (w *Webcam) Setup(ctx context.Context) error {
	w.lib.mu.Lock()
	defer w.lib.mu.Unlock()
	return w.lib.SetupErr
}

func (w *Webcam) Play(ctx context.Context) error {
	w.lib.mu.Lock()
	defer w.lib.mu.Unlock()
	return w.lib.PlayErr
}

func (w *Webcam) Update(ctx context.Context) error {
	w.lib.mu.Lock()
	defer w.lib.mu.Unlock()
	w.lib.Updates++
	return ctx.Err()
}

func (w *Webcam) Stop() error {
	w.lib.mu.Lock()
	defer w.lib.mu.Unlock()
	w.lib.StopCalls++
	return nil
}
