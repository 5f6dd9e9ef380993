package sink

import (
	"github.com/nats-io/nats.go"

	"github.com/Morgan-Stanley/binlog/errors"
)

// Publisher is the slice of the NATS client the sink needs.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATS publishes each drained write as one message on a subject.
//
// The session hands whole entries to every Write (special entries come
// one per write, channel batches contain only complete event frames),
// so each published message is independently parseable by a subscriber
// feeding the bytes to a stream reader.
type NATS struct {
	conn    Publisher
	subject string
}

// NewNATS creates a sink publishing to subject over conn.
func NewNATS(conn Publisher, subject string) (*NATS, error) {
	if conn == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "NATS", "NewNATS", "nil connection")
	}
	if subject == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "NATS", "NewNATS", "empty subject")
	}
	return &NATS{conn: conn, subject: subject}, nil
}

// Write publishes p as one message. The byte count is reported only on
// success; publish failures propagate to the drain caller unchanged.
func (n *NATS) Write(p []byte) (int, error) {
	if err := n.conn.Publish(n.subject, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
