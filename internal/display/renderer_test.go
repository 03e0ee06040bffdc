package display

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/misterclayt0n/stretchcoach/internal/coach"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose/posetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "[░░░░░]"},
		{40, "[██░░░]"},
		{100, "[█████]"},
		{150, "[█████]"},
		{-5, "[░░░░░]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.percent, 5))
	}
}

func TestCenterTextUsesCellWidth(t *testing.T) {
	got := centerText("목", 6)
	assert.Equal(t, "  목  ", got)
	assert.Equal(t, "toolong", centerText("toolong", 3))
}

func TestAttachSurfaceIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	lib := posetest.NewLibrary()
	cam, err := lib.NewWebcam(testContext(t), 300, 300, true)
	require.NoError(t, err)

	assert.False(t, r.Attached())
	assert.True(t, r.AttachSurface(cam))
	assert.False(t, r.AttachSurface(cam))
	assert.False(t, r.AttachSurface(nil))
	assert.True(t, r.Attached())

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Camera 300x300 (mirrored)")))
}

func TestRenderOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	m := coach.New(models.DefaultRoutine())
	require.NoError(t, m.Ready())

	r.Render(m.Snapshot())
	out := buf.String()
	assert.Contains(t, out, "AI 스트레칭 코치")
	assert.Contains(t, out, "시작하기")

	r.Render(m.Snapshot())
	assert.Equal(t, out, buf.String())

	require.NoError(t, m.Start())
	r.Render(m.Snapshot())
	out = buf.String()
	assert.Contains(t, out, "스트레칭 1 / 3")
	assert.Contains(t, out, "목 스트레칭")
	assert.Contains(t, out, "0 / 5")

	require.NoError(t, m.HandlePredictions([]models.Prediction{{Label: "목", Probability: 0.99}}))
	r.Render(m.Snapshot())
	assert.Contains(t, buf.String(), "1 / 5")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("스트레칭 1 / 3")))
}

func TestRenderVerbosePrediction(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	m := coach.New(models.DefaultRoutine())
	require.NoError(t, m.Ready())
	require.NoError(t, m.Start())
	require.NoError(t, m.HandlePredictions([]models.Prediction{{Label: "어깨", Probability: 0.5}}))

	r.Render(m.Snapshot())
	assert.Contains(t, buf.String(), "인식된 자세: 어깨 (정확도: 50.0%)")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	m := coach.New(models.DefaultRoutine())
	require.NoError(t, m.Fail(errors.New("boom")))
	r.Render(m.Snapshot())

	assert.Contains(t, buf.String(), "오류 발생")
	assert.Contains(t, buf.String(), coach.MessageUnknown)
}

// testContext returns a context canceled when the test finishes
// (equivalent to testing.T.Context in Go 1.24+).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
