// Package broadcast fans generated events out to subscribers, each with an
// independent filter, output format, and bounded mailbox. The sink sits
// out-of-band of the simulation: publishing never mutates match state and a
// slow consumer can never stall a round.
package broadcast

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/format"
)

// OutputFormat selects the wire shape a subscriber receives.
type OutputFormat string

const (
	// FormatText delivers the canonical log line.
	FormatText OutputFormat = "text"
	// FormatJSON delivers the structured record envelope.
	FormatJSON OutputFormat = "json"
	// FormatSSE wraps the JSON envelope as a server-sent-events frame.
	FormatSSE OutputFormat = "sse"
)

// Tunables. Publish itself only buffers; the flusher goroutine pays the
// per-subscriber cost, so a full mailbox blocks the flusher for at most
// sendTimeout before the subscriber is deactivated.
const (
	defaultMailbox   = 256
	defaultBurst     = 64
	defaultFlushGap  = 100 * time.Millisecond
	defaultSendWait  = 2 * time.Second
	defaultIdleEvict = 2 * time.Minute
	defaultSweepGap  = 15 * time.Second
)

// Subscriber is one registered consumer. Read delivered messages from Out;
// the channel closes on unsubscribe, eviction, or sink close.
type Subscriber struct {
	ID     string
	Filter Filter
	Format OutputFormat

	out      chan []byte
	quit     chan struct{}
	active   bool
	lastSend time.Time
	// closed marks a deregistered subscriber. out is closed by whichever
	// side can prove no send is in flight: removeLocked when sending is
	// zero, otherwise the deliver that drops it back to zero. sending can
	// exceed one because a burst-full Publish flushes on the caller's
	// goroutine, concurrent with the ticker flush.
	closed  bool
	sending int
}

// Out returns the delivery channel.
func (s *Subscriber) Out() <-chan []byte {
	return s.out
}

// Sink is the fan-out hub. The subscriber registry is the only shared
// mutable state, guarded by mu; records flowing through are immutable.
type Sink struct {
	mu   sync.Mutex
	subs map[string]*Subscriber
	buf  []*format.Record
	done chan struct{}
	wg   sync.WaitGroup
	log  *slog.Logger
	fmt  *format.Formatter

	mailbox   int
	burst     int
	flushGap  time.Duration
	sendWait  time.Duration
	idleEvict time.Duration
	sweepGap  time.Duration
}

// SinkOption tunes a Sink.
type SinkOption func(*Sink)

// WithMailbox sets the per-subscriber mailbox capacity.
func WithMailbox(n int) SinkOption {
	return func(s *Sink) { s.mailbox = n }
}

// WithSendTimeout bounds how long a full mailbox blocks the flusher before
// the subscriber is marked inactive.
func WithSendTimeout(d time.Duration) SinkOption {
	return func(s *Sink) { s.sendWait = d }
}

// WithFlushInterval sets the time-boxed flush period for buffered bursts.
func WithFlushInterval(d time.Duration) SinkOption {
	return func(s *Sink) { s.flushGap = d }
}

// WithIdleEviction sets how long an idle or inactive subscriber survives
// before the sweep removes it.
func WithIdleEviction(d time.Duration) SinkOption {
	return func(s *Sink) { s.idleEvict = d }
}

// NewSink creates a running sink. Call Close to stop its background
// goroutines.
func NewSink(log *slog.Logger, opts ...SinkOption) *Sink {
	if log == nil {
		log = slog.Default()
	}
	s := &Sink{
		subs:      make(map[string]*Subscriber),
		done:      make(chan struct{}),
		log:       log,
		fmt:       format.NewFormatter(log),
		mailbox:   defaultMailbox,
		burst:     defaultBurst,
		flushGap:  defaultFlushGap,
		sendWait:  defaultSendWait,
		idleEvict: defaultIdleEvict,
		sweepGap:  defaultSweepGap,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(2)
	go s.flusher()
	go s.janitor()
	return s
}

// Subscribe registers a consumer. IDs are unique; re-subscribing an ID that
// is still registered is an error.
func (s *Sink) Subscribe(id string, filter Filter, of OutputFormat) (*Subscriber, error) {
	if of == "" {
		of = FormatText
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; ok {
		return nil, fmt.Errorf("subscriber %q already registered", id)
	}
	sub := &Subscriber{
		ID:       id,
		Filter:   filter,
		Format:   of,
		out:      make(chan []byte, s.mailbox),
		quit:     make(chan struct{}),
		active:   true,
		lastSend: time.Now(),
	}
	s.subs[id] = sub
	s.log.Debug("subscriber registered", "id", id, "format", string(of))
	return sub, nil
}

// Unsubscribe removes a consumer and closes its channel.
func (s *Sink) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id, "unsubscribed")
}

func (s *Sink) removeLocked(id, why string) {
	sub, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	if !sub.closed {
		sub.closed = true
		close(sub.quit)
		// A deliver parked on a full mailbox still holds a reference to
		// out; closing it under that send would panic the sender. The
		// woken deliver closes it instead.
		if sub.sending == 0 {
			close(sub.out)
		}
	}
	s.log.Debug("subscriber removed", "id", id, "reason", why)
}

// Publish buffers one event for fan-out. It is cheap and never blocks on
// subscribers: delivery happens on the flusher goroutine.
func (s *Sink) Publish(e event.Event) {
	s.mu.Lock()
	rec, err := s.fmt.Record(e)
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("dropping unpublishable event", "kind", string(e.Kind()), "error", err)
		return
	}
	s.buf = append(s.buf, rec)
	full := len(s.buf) >= s.burst
	s.mu.Unlock()

	if full {
		s.flush()
	}
}

// flusher drains the burst buffer on a fixed period.
func (s *Sink) flusher() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushGap)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

// flush fans buffered records out to every active matching subscriber.
func (s *Sink) flush() {
	s.mu.Lock()
	batch := s.buf
	s.buf = nil
	targets := make([]*Subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.active {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	if len(batch) == 0 || len(targets) == 0 {
		return
	}

	for _, sub := range targets {
		for _, rec := range batch {
			if !sub.Filter.Matches(rec) {
				continue
			}
			msg, err := encode(rec, sub.Format)
			if err != nil {
				s.log.Warn("encode failed", "id", sub.ID, "error", err)
				continue
			}
			if !s.deliver(sub, msg) {
				break
			}
		}
	}
}

// deliver sends one message, waiting at most sendWait for mailbox space.
// A timeout deactivates the subscriber instead of stalling the flusher; a
// concurrent unsubscribe or eviction wakes the send via quit instead of
// closing the mailbox out from under it.
func (s *Sink) deliver(sub *Subscriber, msg []byte) bool {
	s.mu.Lock()
	if sub.closed {
		s.mu.Unlock()
		return false
	}
	sub.sending++
	s.mu.Unlock()

	timer := time.NewTimer(s.sendWait)
	defer timer.Stop()

	sent := false
	select {
	case sub.out <- msg:
		sent = true
	case <-sub.quit:
	case <-timer.C:
	}

	s.mu.Lock()
	sub.sending--
	if sent {
		sub.lastSend = time.Now()
	}
	if sub.closed {
		// Deregistered while the send was parked; removeLocked left the
		// channel for the last in-flight deliver to close.
		if sub.sending == 0 {
			close(sub.out)
		}
		s.mu.Unlock()
		return false
	}
	if !sent {
		sub.active = false
	}
	s.mu.Unlock()

	if !sent {
		s.log.Warn("subscriber timed out, deactivating", "id", sub.ID)
	}
	return sent
}

// janitor periodically evicts inactive subscribers and those idle past the
// eviction window.
func (s *Sink) janitor() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepGap)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *Sink) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subs {
		switch {
		case !sub.active:
			s.removeLocked(id, "inactive")
		case now.Sub(sub.lastSend) > s.idleEvict:
			s.removeLocked(id, "idle")
		}
	}
}

// Close flushes remaining events, stops the background goroutines, and
// closes every subscriber channel.
func (s *Sink) Close() {
	close(s.done)
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.subs {
		s.removeLocked(id, "sink closed")
	}
}

func encode(rec *format.Record, of OutputFormat) ([]byte, error) {
	switch of {
	case FormatText:
		return []byte(rec.Line), nil
	case FormatJSON:
		return rec.JSON()
	case FormatSSE:
		body, err := rec.JSON()
		if err != nil {
			return nil, err
		}
		return []byte("data: " + string(body) + "\n\n"), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", of)
	}
}
