package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/retouch-ai/retouch/pkg/audio"
)

// Status is the conversation lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusActive     Status = "active"
	StatusStopped    Status = "stopped"
	StatusError      Status = "error"
)

// Recorder is the microphone pipeline. *audio.Capture satisfies it.
type Recorder interface {
	Start() error
	Stop()
	SetSink(func(audio.Frame))
}

// Player is the playback side. *audio.Scheduler satisfies it.
type Player interface {
	Enqueue(data string) (time.Time, error)
	Interrupt()
}

// DialFunc opens a live transport. Production code wraps Dial; tests supply
// a scripted fake.
type DialFunc func(ctx context.Context) (Transport, error)

// Callbacks notify the UI of state and transcript changes. Either field may
// be nil. Callbacks fire outside the conversation's lock.
type Callbacks struct {
	OnStatus     func(Status)
	OnTranscript func([]Entry)
}

// Conversation drives a live voice session: idle, connecting, active, then
// stopped or error. Each successful Start creates a fresh session owning its
// transport and transcript; Stop is unconditional and idempotent.
type Conversation struct {
	logger *slog.Logger
	dial   DialFunc
	mic    Recorder
	player Player
	cb     Callbacks

	mu         sync.Mutex
	status     Status
	sess       *session
	transcript []Entry
}

type session struct {
	id        string
	transport Transport
	turns     turnAssembler
}

// NewConversation wires the audio pipeline and transport dialer into an idle
// conversation.
func NewConversation(dial DialFunc, mic Recorder, player Player, cb Callbacks, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conversation{
		logger: logger,
		dial:   dial,
		mic:    mic,
		player: player,
		cb:     cb,
		status: StatusIdle,
	}
}

// Status returns the current lifecycle state.
func (c *Conversation) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Transcript returns a copy of the committed transcript entries.
func (c *Conversation) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Start opens the microphone, dials the transport, and begins routing. A
// Start while connecting or active is a no-op. A microphone failure surfaces
// as a permission error and a dial failure as a transport error; both leave
// the conversation in the error state with all resources released.
func (c *Conversation) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.status == StatusConnecting || c.status == StatusActive {
		c.mu.Unlock()
		return nil
	}
	c.status = StatusConnecting
	c.transcript = nil
	c.mu.Unlock()
	c.notifyStatus(StatusConnecting)

	if err := c.mic.Start(); err != nil {
		c.logger.Error("microphone start failed", "error", err)
		c.setStatus(StatusError)
		return err
	}

	transport, err := c.dial(ctx)
	if err != nil {
		c.mic.Stop()
		c.logger.Error("live connect failed", "error", err)
		c.setStatus(StatusError)
		return err
	}

	sess := &session{id: uuid.NewString(), transport: transport}

	c.mu.Lock()
	if c.status != StatusConnecting {
		// Stopped while dialing: release what we just acquired.
		c.mu.Unlock()
		c.mic.SetSink(nil)
		c.mic.Stop()
		_ = transport.Close()
		return nil
	}
	c.sess = sess
	c.status = StatusActive
	c.mu.Unlock()

	c.mic.SetSink(func(f audio.Frame) {
		if err := transport.SendAudio(f.MIMEType, f.Data); err != nil {
			c.logger.Warn("send audio failed", "session", sess.id, "error", err)
		}
	})
	c.logger.Info("conversation started", "session", sess.id)
	c.notifyStatus(StatusActive)

	go c.route(sess)
	return nil
}

// Stop tears the conversation down unconditionally: capture stops, pending
// playback is interrupted, and the transport closes. A close failure is
// logged, never propagated. Safe to call repeatedly and before any Start.
func (c *Conversation) Stop() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.status = StatusStopped
	c.mu.Unlock()

	c.mic.SetSink(nil)
	c.mic.Stop()
	c.player.Interrupt()
	if sess != nil {
		if err := sess.transport.Close(); err != nil {
			c.logger.Warn("transport close failed", "session", sess.id, "error", err)
		}
		c.logger.Info("conversation stopped", "session", sess.id)
	}
	c.notifyStatus(StatusStopped)
}

// route consumes inbound frames until the transport ends, then finalizes the
// session unless Stop already superseded it.
func (c *Conversation) route(sess *session) {
	for msg := range sess.transport.Messages() {
		c.handle(sess, msg)
	}

	err := sess.transport.Err()
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		return
	}
	c.sess = nil
	final := StatusStopped
	if err != nil {
		final = StatusError
	}
	c.status = final
	c.mu.Unlock()

	c.mic.SetSink(nil)
	c.mic.Stop()
	c.player.Interrupt()
	if err != nil {
		c.logger.Error("conversation ended abnormally", "session", sess.id, "error", err)
	} else {
		c.logger.Info("conversation ended", "session", sess.id)
	}
	c.notifyStatus(final)
}

func (c *Conversation) handle(sess *session, msg *ServerMessage) {
	sc := msg.ServerContent
	if sc == nil {
		return
	}

	if sc.Interrupted {
		c.player.Interrupt()
	}

	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		c.mu.Lock()
		sess.turns.AppendUser(sc.InputTranscription.Text)
		c.mu.Unlock()
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		c.mu.Lock()
		sess.turns.AppendModel(sc.OutputTranscription.Text)
		c.mu.Unlock()
	}

	if sc.ModelTurn != nil {
		for _, part := range sc.ModelTurn.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			if _, err := c.player.Enqueue(part.InlineData.Data); err != nil {
				c.logger.Warn("enqueue model audio failed", "session", sess.id, "error", err)
			}
		}
	}

	if sc.TurnComplete {
		c.mu.Lock()
		sess.turns.FlushTurn()
		entries := sess.turns.Entries()
		c.transcript = entries
		c.mu.Unlock()
		if c.cb.OnTranscript != nil {
			c.cb.OnTranscript(entries)
		}
	}
}

func (c *Conversation) setStatus(st Status) {
	c.mu.Lock()
	c.status = st
	c.mu.Unlock()
	c.notifyStatus(st)
}

func (c *Conversation) notifyStatus(st Status) {
	if c.cb.OnStatus != nil {
		c.cb.OnStatus(st)
	}
}
