// Package script implements pose.Library by replaying prediction frames
// recorded in a TOML file.
//
//	classes = ["목", "어깨", "손목"]
//	frame_interval = "33ms"
//
//	[[frame]]
//	repeat = 3
//	  [[frame.prediction]]
//	  label = "목"
//	  probability = 0.92
//
// Setting fail = "permission", "device" or "unknown" makes initialization
// fail the way a browser camera would.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
)

var ErrScriptExhausted = fmt.Errorf("%w: script exhausted", pose.ErrSourceClosed)

const (
	FailPermission = "permission"
	FailDevice     = "device"
	FailUnknown    = "unknown"
)

//
// For TOML parsing only
//

type scriptTOML struct {
	Classes       []string      `toml:"classes"`
	FrameInterval time.Duration `toml:"frame_interval"`
	Fail          string        `toml:"fail"`
	Frames        []frameTOML   `toml:"frame"`
}

type frameTOML struct {
	Repeat      int                 `toml:"repeat"`
	Predictions []models.Prediction `toml:"prediction"`
}

// Library replays frames in file order.
type Library struct {
	classes  []string
	interval time.Duration
	fail     string

	mu     sync.Mutex
	frames [][]models.Prediction
	next   int
}

// Load reads a script file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Library, error) {
	var s scriptTOML
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	switch s.Fail {
	case "", FailPermission, FailDevice, FailUnknown:
	default:
		return nil, fmt.Errorf("unknown fail mode %q", s.Fail)
	}
	if s.FrameInterval < 0 {
		return nil, errors.New("frame_interval must not be negative")
	}

	lib := &Library{classes: s.Classes, interval: s.FrameInterval, fail: s.Fail}
	for i, f := range s.Frames {
		if len(f.Predictions) == 0 {
			return nil, fmt.Errorf("frame %d has no predictions", i+1)
		}
		for _, p := range f.Predictions {
			if p.Probability < 0 || p.Probability > 1 {
				return nil, fmt.Errorf("frame %d: probability %v of %q out of range", i+1, p.Probability, p.Label)
			}
		}
		repeat := f.Repeat
		if repeat < 0 {
			return nil, fmt.Errorf("frame %d: negative repeat", i+1)
		}
		if repeat == 0 {
			repeat = 1
		}
		for r := 0; r < repeat; r++ {
			lib.frames = append(lib.frames, f.Predictions)
		}
	}
	return lib, nil
}

// Len is the number of frames after expanding repeats.
func (l *Library) Len() int {
	return len(l.frames)
}

func (l *Library) Classes() []string {
	return append([]string(nil), l.classes...)
}

func (l *Library) Load(ctx context.Context, modelURL, metadataURL string) (pose.Model, error) {
	if l.fail == FailUnknown {
		return nil, fmt.Errorf("fetch %s: simulated failure", modelURL)
	}
	return l, nil
}

func (l *Library) NewWebcam(ctx context.Context, width, height int, flip bool) (pose.Webcam, error) {
	return &webcam{lib: l, width: width, height: height, flip: flip}, nil
}

// Predict returns the next recorded frame.
func (l *Library) Predict(ctx context.Context, s pose.Surface) ([]models.Prediction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.next >= len(l.frames) {
		return nil, ErrScriptExhausted
	}
	f := l.frames[l.next]
	l.next++
	return append([]models.Prediction(nil), f...), nil
}

type webcam struct {
	lib           *Library
	width, height int
	flip          bool
}

func (w *webcam) Width() int     { return w.width }
func (w *webcam) Height() int    { return w.height }
func (w *webcam) Mirrored() bool { return w.flip }

func (w *webcam) Setup(ctx context.Context) error {
	switch w.lib.fail {
	case FailPermission:
		return &pose.LibraryError{Name: pose.NameNotAllowed, Message: "Permission denied"}
	case FailDevice:
		return &pose.LibraryError{Name: pose.NameNotFound, Message: "Requested device not found"}
	}
	return nil
}

func (w *webcam) Play(ctx context.Context) error {
	return nil
}

// Update waits one recorded frame interval.
func (w *webcam) Update(ctx context.Context) error {
	if w.lib.interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(w.lib.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (w *webcam) Stop() error {
	return nil
}
