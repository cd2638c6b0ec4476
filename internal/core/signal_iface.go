package core

// Frame is an encoded payload ready to be written to the wire.
type Frame []byte

// ConnID is the transport-assigned id of one live connection.
type ConnID string

// Connection abstracts one live socket session.
// Owned by the transport adapter; the adapter must Close() it.
type Connection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}
