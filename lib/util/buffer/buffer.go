// Package buffer stages a single FIX message body whose length is known
// up front from the wire (the BodyLength field), so fix/codec can read it
// in one shot without a growable bytes.Buffer's repeated reallocation.
package buffer

import "io"

// Buffer holds one message body between the wire and the field splitter.
type Buffer struct {
	Data []byte
}

// NewBuffer allocates a Buffer sized to hold exactly length bytes.
func NewBuffer(length int) *Buffer {
	return &Buffer{Data: make([]byte, length)}
}

// Fill reads len(b.Data) bytes from r, blocking until the body has
// arrived in full or r reports an error.
func (b *Buffer) Fill(r io.Reader) error {
	_, err := io.ReadFull(r, b.Data)
	return err
}
