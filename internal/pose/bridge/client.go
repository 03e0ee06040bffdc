// Package bridge implements pose.Library over a WebSocket connection to a
// classifier bridge: the browser page (or sidecar) that owns the webcam and
// runs the Teachable Machine model.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
	"github.com/rs/zerolog"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	ClientIDHeader        = "X-Stretchcoach-Client"
)

// Client is a pose.Library backed by a bridge connection. One request is in
// flight at a time.
type Client struct {
	url     string
	id      string
	timeout time.Duration
	dialer  *websocket.Dialer
	logger  zerolog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	sequence int64
	classes  []string
	closed   bool
}

func NewClient(url string, logger zerolog.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		url:     url,
		id:      id,
		timeout: DefaultRequestTimeout,
		dialer:  websocket.DefaultDialer,
		logger:  logger.With().Str("component", "pose-bridge").Str("client", id).Logger(),
	}
}

// SetTimeout changes the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Classes returns the class names reported by the loaded model.
func (c *Client) Classes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.classes...)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.closed {
		return pose.ErrSourceClosed
	}
	if c.conn != nil {
		return nil
	}

	header := http.Header{}
	header.Set(ClientIDHeader, c.id)

	c.logger.Info().Str("url", c.url).Msg("Connecting to classifier bridge")
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.conn = conn
	return nil
}

// roundTrip sends req and waits for a response of type want.
func (c *Client) roundTrip(ctx context.Context, req Request, want string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}
	conn := c.conn

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)
	conn.SetReadDeadline(deadline)

	// Unblock a pending read when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON(req); err != nil {
		return nil, c.connErrLocked(ctx, "write", err)
	}

	for {
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			return nil, c.connErrLocked(ctx, "read", err)
		}

		switch {
		case resp.Type == TypeError:
			return nil, &pose.LibraryError{Name: resp.Name, Message: resp.Message}
		case resp.Type != want:
			c.logger.Debug().Str("type", resp.Type).Str("want", want).Msg("Skipping message")
		case want == TypePredictions && resp.Sequence != req.Sequence:
			c.logger.Debug().Int64("sequence", resp.Sequence).Msg("Skipping stale predictions")
		default:
			return &resp, nil
		}
	}
}

// connErrLocked turns a transport failure into a context error or a closed
// source; the connection is unusable afterwards.
func (c *Client) connErrLocked(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		c.dropLocked()
		return ctx.Err()
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.dropLocked()
		return fmt.Errorf("%s: bridge timed out: %w", op, err)
	}
	c.dropLocked()
	c.closed = true
	return fmt.Errorf("%w: %s: %v", pose.ErrSourceClosed, op, err)
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Load(ctx context.Context, modelURL, metadataURL string) (pose.Model, error) {
	resp, err := c.roundTrip(ctx, Request{Type: TypeLoad, Model: modelURL, Metadata: metadataURL}, TypeLoaded)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.classes = resp.Classes
	c.mu.Unlock()

	c.logger.Info().Strs("classes", resp.Classes).Msg("Model loaded")
	return &model{client: c}, nil
}

func (c *Client) NewWebcam(ctx context.Context, width, height int, flip bool) (pose.Webcam, error) {
	return &webcam{client: c, width: width, height: height, flip: flip}, nil
}

// Close sends a stop request (best effort) and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}

	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := c.conn.WriteJSON(Request{Type: TypeStop}); err != nil {
		c.logger.Debug().Err(err).Msg("Stop request failed")
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.conn = nil
	return err
}

type model struct {
	client *Client
}

func (m *model) Predict(ctx context.Context, s pose.Surface) ([]models.Prediction, error) {
	m.client.mu.Lock()
	m.client.sequence++
	seq := m.client.sequence
	m.client.mu.Unlock()

	resp, err := m.client.roundTrip(ctx, Request{Type: TypePredict, Sequence: seq}, TypePredictions)
	if err != nil {
		return nil, err
	}
	return resp.Predictions, nil
}

type webcam struct {
	client        *Client
	width, height int
	flip          bool
	stopOnce      sync.Once
	stopErr       error
}

func (w *webcam) Width() int     { return w.width }
func (w *webcam) Height() int    { return w.height }
func (w *webcam) Mirrored() bool { return w.flip }

func (w *webcam) Setup(ctx context.Context) error {
	_, err := w.client.roundTrip(ctx, Request{Type: TypeWebcam, Width: w.width, Height: w.height, Flip: w.flip}, TypeReady)
	return err
}

func (w *webcam) Play(ctx context.Context) error {
	_, err := w.client.roundTrip(ctx, Request{Type: TypePlay}, TypeReady)
	return err
}

func (w *webcam) Update(ctx context.Context) error {
	_, err := w.client.roundTrip(ctx, Request{Type: TypeUpdate}, TypeAck)
	return err
}

// Stop ends capture and closes the bridge connection.
func (w *webcam) Stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.client.Close()
	})
	return w.stopErr
}
