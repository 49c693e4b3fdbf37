package live

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/retouch-ai/retouch/pkg/core"
)

const defaultConnectTimeout = 15 * time.Second

// DefaultEndpoint is the bidirectional streaming endpoint of the generative
// service.
const DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// Transport is the conversation's view of an open live connection.
type Transport interface {
	// SendAudio streams one base64 PCM chunk upstream.
	SendAudio(mimeType, data string) error
	// Messages yields decoded inbound frames until the connection ends.
	Messages() <-chan *ServerMessage
	// Close tears the connection down. Safe to call more than once.
	Close() error
	// Err returns the terminal read error, if the connection ended abnormally.
	Err() error
}

// DialOptions configures Dial.
type DialOptions struct {
	Endpoint string // defaults to DefaultEndpoint
	APIKey   string
	Model    string
}

// Session is a live websocket connection. Writes are serialized behind a
// mutex; a single read loop decodes inbound frames onto Messages().
type Session struct {
	conn *websocket.Conn

	messages chan *ServerMessage
	done     chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

// Dial connects, performs the setup handshake, and starts the read loop.
// The returned session is ready to stream audio.
func Dial(ctx context.Context, opts DialOptions) (*Session, error) {
	if opts.APIKey == "" {
		return nil, core.NewInvalidRequestError("api key must not be empty")
	}
	if opts.Model == "" {
		return nil, core.NewInvalidRequestError("model must not be empty")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	wsURL := endpoint + "?key=" + url.QueryEscape(opts.APIKey)

	dialer := websocket.DefaultDialer
	if dialer == nil {
		dialer = &websocket.Dialer{}
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, resp, err := dialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, core.NewTransportError("dial", fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err))
		}
		return nil, core.NewTransportError("dial", err)
	}

	if err := conn.WriteJSON(ClientMessage{Setup: &Setup{Model: opts.Model}}); err != nil {
		_ = conn.Close()
		return nil, core.NewTransportError("send setup", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, core.NewTransportError("read setup ack", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	first, err := DecodeServerMessage(payload)
	if err != nil {
		_ = conn.Close()
		return nil, core.NewTransportError("decode setup ack", err)
	}
	if first.SetupComplete == nil {
		_ = conn.Close()
		return nil, core.NewTransportError("setup", fmt.Errorf("unexpected first frame: %s", payload))
	}

	s := &Session{
		conn:     conn,
		messages: make(chan *ServerMessage, 256),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// SendAudio streams one captured audio chunk upstream.
func (s *Session) SendAudio(mimeType, data string) error {
	if s == nil {
		return core.NewInvalidRequestError("session must not be nil")
	}
	msg := ClientMessage{RealtimeInput: &RealtimeInput{
		MediaChunks: []MediaChunk{{MIMEType: mimeType, Data: data}},
	}}
	return s.sendJSON(msg)
}

// Messages yields decoded inbound frames. The channel closes when the
// connection ends.
func (s *Session) Messages() <-chan *ServerMessage {
	if s == nil {
		return nil
	}
	return s.messages
}

func (s *Session) sendJSON(v any) error {
	if s.closed.Load() {
		return core.NewTransportError("send", fmt.Errorf("session is closed"))
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		return core.NewTransportError("send", err)
	}
	return nil
}

// Close closes the websocket and waits for the read loop to drain.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

// Err returns the terminal read error after the connection ends.
func (s *Session) Err() error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
	default:
		return nil
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Session) readLoop() {
	defer close(s.done)
	defer close(s.messages)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.setErr(core.NewTransportError("read", err))
			return
		}
		msg, err := DecodeServerMessage(data)
		if err != nil {
			s.setErr(err)
			return
		}
		select {
		case s.messages <- msg:
		default:
			// Avoid deadlocking the read loop if the consumer stalls.
		}
	}
}
