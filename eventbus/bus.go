package eventbus

import (
	"net"
	"sync"

	"github.com/google/uuid"

	herrors "horsetab/errors"
	"horsetab/logging"
	"horsetab/model"
)

// subscriber is a live consumer of the event stream, keyed by its peer
// port.
type subscriber struct {
	conn    net.Conn
	traceID string
}

// Bus multiplexes recognizer events to every live TCP subscriber. Its
// own internal lock is independent of the coordinator's shared-state
// lock, so the writer and the acceptor make progress independently of
// dispatch.
type Bus struct {
	mu   sync.Mutex
	subs map[int]*subscriber

	events   chan model.Event
	listener net.Listener
}

// NewBus creates a bus with an unbounded-in-practice buffered event
// channel; Emit never blocks dispatch on subscriber I/O.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[int]*subscriber),
		events: make(chan model.Event, 256),
	}
}

// Emit enqueues ev for delivery to every current subscriber, preserving
// emission order.
func (b *Bus) Emit(ev model.Event) {
	b.events <- ev
}

// Run is the single writer loop: it pulls events off the channel and
// fans each one out to every subscriber, dropping any whose write
// fails. Run blocks until its context-less channel is closed by Close.
func (b *Bus) Run() {
	for ev := range b.events {
		frame := EncodeEvent(ev)

		b.mu.Lock()
		for port, sub := range b.subs {
			if err := writeFull(sub.conn, frame); err != nil {
				logging.WithSubscriber(logging.Default(), port, sub.traceID).
					Infow("dropping subscriber", "error", herrors.ErrSubscriberGone, "cause", err)
				sub.conn.Close()
				delete(b.subs, port)
			}
		}
		b.mu.Unlock()
	}
}

// Close stops Run by closing the event channel. Safe to call once.
func (b *Bus) Close() {
	close(b.events)
}

// Listen opens a TCP listener on a dynamically assigned port and
// starts the acceptor goroutine. It returns the chosen port so the
// HTTP surface can report it via GET /tcp-port.
func (b *Bus) Listen() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	b.listener = ln
	go b.accept()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Port returns the bus's listening port, or 0 if Listen hasn't run.
func (b *Bus) Port() int {
	if b.listener == nil {
		return 0
	}
	return b.listener.Addr().(*net.TCPAddr).Port
}

func (b *Bus) accept() {
	for {
		conn, err := b.listener.Accept()
		if err != nil {
			return // listener closed
		}
		go b.handshake(conn)
	}
}

// handshake validates the client's subscription action and, on Watch,
// registers it as a subscriber keyed by its peer port and shuts down
// its read half.
func (b *Bus) handshake(conn net.Conn) {
	ok, err := DecodeAction(conn)
	if err != nil {
		conn.Close()
		return
	}
	if !ok {
		logging.Default().Infow("rejecting subscription", "error", herrors.ErrUnknownAction)
		WriteHandshakeReply(conn, false)
		conn.Close()
		return
	}
	if err := WriteHandshakeReply(conn, true); err != nil {
		conn.Close()
		return
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseRead()
	}

	peerPort := conn.RemoteAddr().(*net.TCPAddr).Port
	sub := &subscriber{conn: conn, traceID: uuid.NewString()}

	b.mu.Lock()
	b.subs[peerPort] = sub
	b.mu.Unlock()

	logging.WithSubscriber(logging.Default(), peerPort, sub.traceID).Info("subscriber connected")
}

// SubscriberCount returns the number of currently connected
// subscribers, for the /metrics gauge.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// CloseListener stops accepting new subscribers.
func (b *Bus) CloseListener() error {
	if b.listener == nil {
		return nil
	}
	return b.listener.Close()
}
