package client

import (
	"net"
	"strconv"
	"time"

	herrors "horsetab/errors"
	"horsetab/eventbus"
	"horsetab/model"
)

// Subscription is a live connection to the daemon's event bus,
// opened by Watch.
type Subscription struct {
	conn net.Conn
}

// Watch dials the daemon's event bus port and performs the Watch
// handshake, returning a Subscription the caller can read events from
// with Next.
func Watch(port int) (*Subscription, error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), 5*time.Second)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.ErrInternal, "dial event bus")
	}

	if _, err := conn.Write(eventbus.EncodeWatchRequest()); err != nil {
		conn.Close()
		return nil, herrors.Wrap(err, herrors.ErrProtocol, "send watch request")
	}

	ok, err := eventbus.ReadHandshakeReply(conn)
	if err != nil {
		conn.Close()
		return nil, herrors.Wrap(err, herrors.ErrProtocol, "read handshake reply")
	}
	if !ok {
		conn.Close()
		return nil, herrors.WrapSentinel(herrors.ErrUnknownAction, "watch", nil)
	}

	return &Subscription{conn: conn}, nil
}

// Next blocks for the next event on the wire.
func (s *Subscription) Next() (model.Event, error) {
	return eventbus.DecodeEvent(s.conn)
}

// Close releases the underlying connection.
func (s *Subscription) Close() error {
	return s.conn.Close()
}

