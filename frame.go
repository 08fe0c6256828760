package x86

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
)

// The network wrapper speaks a length-prefixed binary envelope:
// a 4-byte little-endian payload length followed by the payload.
// Requests carry the program image (length clamped to MaxProgramSize);
// responses carry the captured output.

// ReadRequest reads one request frame. A short read is a transport
// error and aborts the session.
func ReadRequest(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxProgramSize {
		n = MaxProgramSize
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}

// WriteResponse writes one response frame.
func WriteResponse(w io.Writer, out []byte) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(out)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// Serve accepts connections one at a time and runs one emulation
// session per connection, each against fresh memory, CPU and output
// state. It returns when the listener is closed.
func Serve(l net.Listener, maxSteps int) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		serveConn(conn, maxSteps)
	}
}

// serveConn runs a single session. Transport errors abort the session
// without exposing any state.
func serveConn(conn net.Conn, maxSteps int) {
	defer conn.Close()

	program, err := ReadRequest(conn)
	if err != nil {
		log.Printf("[x86] %s: %v", conn.RemoteAddr(), err)
		return
	}
	out := Execute(program, maxSteps)
	if err := WriteResponse(conn, out); err != nil {
		log.Printf("[x86] %s: %v", conn.RemoteAddr(), err)
	}
}
