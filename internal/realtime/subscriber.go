package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
	// StateGivenUp is terminal: the attempt cap was hit and no further
	// reconnects will be scheduled until the consumer calls Connect.
	StateGivenUp ConnState = "given_up"
)

const (
	maxBufferedUpdates = 100
	maxReconnectDelay  = 30 * time.Second
	defaultMaxAttempts = 10
)

// SubscriberConfig wires one table subscription to typed callbacks.
type SubscriberConfig struct {
	URL         string
	Table       string
	Filter      string
	MaxAttempts int
	OnInsert    func(ChangeEvent)
	OnUpdate    func(ChangeEvent)
	OnDelete    func(ChangeEvent)
}

// Subscriber is the client half of the change feed. Channel errors are
// never surfaced as panics; consumers poll State and Err. Reconnection
// backs off exponentially and gives up after MaxAttempts.
type Subscriber struct {
	cfg SubscriberConfig

	mu       sync.Mutex
	conn     *websocket.Conn
	state    ConnState
	lastErr  error
	attempts int
	timer    *time.Timer
	updates  []ChangeEvent
	latest   *ChangeEvent
}

func NewSubscriber(cfg SubscriberConfig) *Subscriber {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Subscriber{
		cfg:   cfg,
		state: StateDisconnected,
	}
}

// Connect dials the feed and sends the subscribe frame. On failure the
// reconnect loop takes over; the first error is still returned so
// callers can log it.
func (s *Subscriber) Connect() error {
	s.mu.Lock()
	if s.state == StateConnected || s.state == StateConnecting {
		s.mu.Unlock()
		return nil
	}
	s.state = StateConnecting
	s.mu.Unlock()

	conn, resp, err := websocket.DefaultDialer.Dial(s.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		s.failAndReschedule(err)
		return err
	}

	frame := clientFrame{Action: "subscribe", Table: s.cfg.Table, Filter: s.cfg.Filter}
	if err := conn.WriteJSON(frame); err != nil {
		conn.Close()
		s.failAndReschedule(err)
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateConnected
	s.attempts = 0
	s.lastErr = nil
	s.mu.Unlock()

	go s.readLoop(conn)
	return nil
}

// Disconnect tears the subscription down: pending reconnect timers are
// cancelled, attempts reset, the socket closed. The subscriber can be
// reused with another Connect call.
func (s *Subscriber) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.attempts = 0
	s.state = StateDisconnected
}

func (s *Subscriber) readLoop(conn *websocket.Conn) {
	for {
		var evt ChangeEvent
		if err := conn.ReadJSON(&evt); err != nil {
			s.mu.Lock()
			if s.conn != conn {
				// Manual disconnect already ran; nothing to reschedule.
				s.mu.Unlock()
				return
			}
			s.conn = nil
			s.lastErr = err
			s.state = StateDisconnected
			s.mu.Unlock()
			s.scheduleReconnect()
			return
		}
		s.record(evt)
		s.dispatch(evt)
	}
}

func (s *Subscriber) failAndReschedule(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.state = StateDisconnected
	s.mu.Unlock()
	s.scheduleReconnect()
}

func (s *Subscriber) scheduleReconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		return
	}
	if s.attempts >= s.cfg.MaxAttempts {
		s.state = StateGivenUp
		if s.lastErr == nil {
			s.lastErr = errors.New("realtime: reconnect attempts exhausted")
		}
		return
	}

	delay := backoffDelay(s.attempts)
	s.attempts++
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		s.Connect()
	})
}

// backoffDelay is min(1s * 2^attempts, 30s).
func backoffDelay(attempts int) time.Duration {
	if attempts >= 5 {
		return maxReconnectDelay
	}
	return time.Second << attempts
}

// record appends to the bounded update history, evicting the oldest
// entry once the bound is exceeded.
func (s *Subscriber) record(evt ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, evt)
	if len(s.updates) > maxBufferedUpdates {
		s.updates = s.updates[len(s.updates)-maxBufferedUpdates:]
	}
	s.latest = &evt
}

func (s *Subscriber) dispatch(evt ChangeEvent) {
	switch evt.Type {
	case EventInsert:
		if s.cfg.OnInsert != nil {
			s.cfg.OnInsert(evt)
		}
	case EventUpdate:
		if s.cfg.OnUpdate != nil {
			s.cfg.OnUpdate(evt)
		}
	case EventDelete:
		if s.cfg.OnDelete != nil {
			s.cfg.OnDelete(evt)
		}
	}
}

func (s *Subscriber) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Subscriber) IsConnected() bool {
	return s.State() == StateConnected
}

func (s *Subscriber) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Subscriber) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Updates returns a copy of the buffered change history, oldest first.
func (s *Subscriber) Updates() []ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChangeEvent, len(s.updates))
	copy(out, s.updates)
	return out
}

func (s *Subscriber) LatestUpdate() *ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// ClearUpdates resets both the history buffer and the latest update.
func (s *Subscriber) ClearUpdates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = nil
	s.latest = nil
}
