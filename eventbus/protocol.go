// Package eventbus implements the fan-out event bus: a single writer
// that serializes recognizer events once and fans them out to every
// subscribed TCP socket, and the TCP acceptor that registers
// subscribers via a small handshake.
package eventbus

import (
	"errors"
	"fmt"
	"io"

	"horsetab/model"
)

// Wire tags. A self-delimited tag-byte + payload framing: every event
// shape has a known fixed size once the tag is read, so no length
// prefix is needed.
const (
	tagSequenceReset byte = 0
	tagSequenceItem  byte = 1
	tagFoundResults  byte = 2
)

// actionWatch is the only client action currently defined.
const actionWatch byte = 0

// EncodeEvent serializes ev into its wire form: one tag byte, and for
// SequenceItem, the character that follows.
func EncodeEvent(ev model.Event) []byte {
	switch ev.Type {
	case model.SequenceReset:
		return []byte{tagSequenceReset}
	case model.SequenceItem:
		return []byte{tagSequenceItem, ev.Char}
	case model.FoundResults:
		return []byte{tagFoundResults}
	default:
		return []byte{tagSequenceReset}
	}
}

// DecodeEvent reads one framed event from r.
func DecodeEvent(r io.Reader) (model.Event, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return model.Event{}, err
	}
	switch tag[0] {
	case tagSequenceReset:
		return model.Event{Type: model.SequenceReset}, nil
	case tagSequenceItem:
		var c [1]byte
		if _, err := io.ReadFull(r, c[:]); err != nil {
			return model.Event{}, err
		}
		return model.Event{Type: model.SequenceItem, Char: c[0]}, nil
	case tagFoundResults:
		return model.Event{Type: model.FoundResults}, nil
	default:
		return model.Event{}, fmt.Errorf("eventbus: unknown event tag %d", tag[0])
	}
}

// EncodeWatchRequest builds the client->server subscription handshake.
func EncodeWatchRequest() []byte {
	return []byte{actionWatch}
}

// DecodeAction reads the one-byte action tag a new TCP connection
// sends on accept. ok is false for any value other than Watch, the
// only subscription action currently defined.
func DecodeAction(r io.Reader) (ok bool, err error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return false, err
	}
	return tag[0] == actionWatch, nil
}

// handshakeOk/handshakeWrong are the server's one-byte replies to a
// subscription attempt.
var (
	handshakeOk    = []byte{1}
	handshakeWrong = []byte{0}
)

// WriteHandshakeReply writes Ok or Wrong depending on accepted.
func WriteHandshakeReply(w io.Writer, accepted bool) error {
	if accepted {
		_, err := w.Write(handshakeOk)
		return err
	}
	_, err := w.Write(handshakeWrong)
	return err
}

// ReadHandshakeReply reads the server's Ok/Wrong reply.
func ReadHandshakeReply(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] == 1, nil
}

// errShortWrite surfaces a partial write to a subscriber socket as an
// I/O error: any write error, partial or otherwise, drops the
// subscriber.
var errShortWrite = errors.New("eventbus: short write")

func writeFull(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errShortWrite
	}
	return nil
}

