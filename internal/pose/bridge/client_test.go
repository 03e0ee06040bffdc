package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fakeBridge answers bridge requests like the browser page would.
type fakeBridge struct {
	mu        sync.Mutex
	failOn    map[string]Response
	stale     bool // send a stale predictions message before the real one
	closeOn   string
	requests  []Request
	clientIDs []string
}

func (b *fakeBridge) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, r := range b.requests {
		out = append(out, r.Type)
	}
	return out
}

func (b *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.clientIDs = append(b.clientIDs, r.Header.Get(ClientIDHeader))
	b.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		b.mu.Lock()
		b.requests = append(b.requests, req)
		fail, failing := b.failOn[req.Type]
		closeNow := b.closeOn == req.Type
		stale := b.stale
		b.mu.Unlock()

		if closeNow {
			return
		}
		if failing {
			conn.WriteJSON(fail)
			continue
		}

		switch req.Type {
		case TypeLoad:
			conn.WriteJSON(Response{Type: TypeLoaded, Classes: []string{"목", "어깨", "손목"}})
		case TypeWebcam, TypePlay:
			conn.WriteJSON(Response{Type: TypeReady})
		case TypeUpdate:
			conn.WriteJSON(Response{Type: TypeAck})
		case TypePredict:
			if stale {
				conn.WriteJSON(Response{Type: TypePredictions, Sequence: req.Sequence - 1,
					Predictions: []models.Prediction{{Label: "손목", Probability: 1}}})
			}
			conn.WriteJSON(Response{Type: TypePredictions, Sequence: req.Sequence, Predictions: []models.Prediction{
				{Label: "목", Probability: 0.91},
				{Label: "어깨", Probability: 0.06},
				{Label: "손목", Probability: 0.03},
			}})
		case TypeStop:
			return
		}
	}
}

func startBridge(t *testing.T, b *fakeBridge) string {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/pose"
}

func newAdapter(url string) (*pose.Adapter, *Client) {
	c := NewClient(url, zerolog.Nop())
	c.SetTimeout(2 * time.Second)
	return pose.NewAdapter(pose.AdapterOptions{Library: c, Logger: zerolog.Nop()}), c
}

func TestBridgeSession(t *testing.T) {
	b := &fakeBridge{}
	a, c := newAdapter(startBridge(t, b))
	ctx := context.Background()

	require.NoError(t, a.Initialize(ctx))
	assert.Equal(t, []string{"목", "어깨", "손목"}, c.Classes())

	preds, err := a.NextPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	top, _ := models.Top(preds)
	assert.Equal(t, models.Prediction{Label: "목", Probability: 0.91}, top)

	require.NoError(t, a.Teardown())
	require.NoError(t, a.Teardown())

	require.Eventually(t, func() bool {
		types := b.types()
		return len(types) > 0 && types[len(types)-1] == TypeStop
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{TypeLoad, TypeWebcam, TypePlay, TypeUpdate, TypePredict, TypeStop}, b.types())

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.clientIDs, 1)
	assert.NotEmpty(t, b.clientIDs[0])
	assert.Equal(t, models.CameraWidth, b.requests[1].Width)
	assert.True(t, b.requests[1].Flip)
	assert.True(t, strings.HasSuffix(b.requests[0].Model, "model.json"))
	assert.True(t, strings.HasSuffix(b.requests[0].Metadata, "metadata.json"))
}

func TestBridgeErrorsClassify(t *testing.T) {
	tests := []struct {
		name string
		on   string
		resp Response
		kind pose.InitErrorKind
	}{
		{"permission", TypeWebcam, Response{Type: TypeError, Name: pose.NameNotAllowed, Message: "Permission denied"}, pose.PermissionDenied},
		{"no camera", TypePlay, Response{Type: TypeError, Name: pose.NameNotFound, Message: "Requested device not found"}, pose.DeviceNotFound},
		{"model missing", TypeLoad, Response{Type: TypeError, Name: "Error", Message: "404"}, pose.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBridge{failOn: map[string]Response{tt.on: tt.resp}}
			a, _ := newAdapter(startBridge(t, b))

			err := a.Initialize(context.Background())
			var ie *pose.InitError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.kind, ie.Kind)

			var le *pose.LibraryError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.resp.Message, le.Message)
		})
	}
}

func TestBridgeDialFailure(t *testing.T) {
	a, _ := newAdapter("ws://127.0.0.1:1/pose")

	err := a.Initialize(context.Background())
	var ie *pose.InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, pose.Unknown, ie.Kind)
}

func TestBridgeSkipsStalePredictions(t *testing.T) {
	b := &fakeBridge{stale: true}
	a, _ := newAdapter(startBridge(t, b))
	ctx := context.Background()
	require.NoError(t, a.Initialize(ctx))

	for i := 0; i < 3; i++ {
		preds, err := a.NextPredictions(ctx)
		require.NoError(t, err)
		assert.Equal(t, "목", preds[0].Label)
	}
	require.NoError(t, a.Teardown())
}

func TestBridgeHangupClosesSource(t *testing.T) {
	b := &fakeBridge{closeOn: TypePredict}
	a, c := newAdapter(startBridge(t, b))
	ctx := context.Background()
	require.NoError(t, a.Initialize(ctx))

	_, err := a.NextPredictions(ctx)
	assert.ErrorIs(t, err, pose.ErrSourceClosed)

	_, err = c.Load(ctx, "m", "d")
	assert.ErrorIs(t, err, pose.ErrSourceClosed)
	assert.NoError(t, a.Teardown())
}

func TestBridgeContextCancel(t *testing.T) {
	b := &fakeBridge{}
	a, _ := newAdapter(startBridge(t, b))
	require.NoError(t, a.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.NextPredictions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, a.Teardown())
}
