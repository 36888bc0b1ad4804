// Package wire implements the low-level IMAP4rev1 byte stream, tokenizer,
// and command serializer: the parts of the protocol that have nothing to
// do with any particular command's semantics.
package wire

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"
)

// Stream is the buffered byte-stream layer (component A): a bufio.Reader
// and bufio.Writer pair over a net.Conn, with deadline plumbing and an
// optional raw-traffic trace sink. Nothing above this layer touches the
// underlying conn directly.
type Stream struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer

	// Trace, when non-nil, receives an unprefixed copy of every byte
	// read from or written to the connection, for protocol debugging.
	// It is never written to on the hot path unless set.
	trace io.Writer

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewStream wraps conn in buffered reader/writer with the given default
// I/O timeouts (zero means no deadline is set).
func NewStream(conn net.Conn, readTimeout, writeTimeout time.Duration) *Stream {
	return &Stream{
		conn:         conn,
		r:            bufio.NewReaderSize(conn, 8192),
		w:            bufio.NewWriterSize(conn, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// SetTrace installs or clears the raw-traffic trace sink.
func (s *Stream) SetTrace(w io.Writer) {
	s.trace = w
}

// Reader exposes the underlying buffered reader for the tokenizer.
func (s *Stream) Reader() *bufio.Reader {
	return s.r
}

// Writer exposes the underlying buffered writer for the encoder.
func (s *Stream) Writer() *bufio.Writer {
	return s.w
}

// applyReadDeadline arms the connection's read deadline from the
// stream's configured read timeout, if any.
func (s *Stream) applyReadDeadline() {
	if s.readTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
}

func (s *Stream) applyWriteDeadline() {
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
}

// ReadByte reads and returns a single byte, applying the read deadline
// and tracing it if a sink is installed.
func (s *Stream) ReadByte() (byte, error) {
	s.applyReadDeadline()
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if s.trace != nil {
		_, _ = s.trace.Write([]byte{b})
	}
	return b, nil
}

// Peek returns the next n buffered bytes without consuming them.
func (s *Stream) Peek(n int) ([]byte, error) {
	s.applyReadDeadline()
	return s.r.Peek(n)
}

// ReadFull reads exactly len(buf) bytes, as io.ReadFull, with tracing.
func (s *Stream) ReadFull(buf []byte) (int, error) {
	s.applyReadDeadline()
	n, err := io.ReadFull(s.r, buf)
	if n > 0 && s.trace != nil {
		_, _ = s.trace.Write(buf[:n])
	}
	return n, err
}

// LimitReader returns a reader over the next n bytes of the stream, for
// streaming a literal's payload to a caller-supplied sink without
// buffering it whole.
func (s *Stream) LimitReader(n int64) io.Reader {
	s.applyReadDeadline()
	lr := io.LimitReader(s.r, n)
	if s.trace == nil {
		return lr
	}
	return io.TeeReader(lr, s.trace)
}

// WriteString writes s to the buffered writer without flushing.
func (s *Stream) WriteString(str string) error {
	if s.trace != nil {
		_, _ = s.trace.Write([]byte(str))
	}
	_, err := s.w.WriteString(str)
	return err
}

// Write writes p to the buffered writer without flushing.
func (s *Stream) Write(p []byte) (int, error) {
	if s.trace != nil {
		_, _ = s.trace.Write(p)
	}
	return s.w.Write(p)
}

// Flush pushes buffered output to the connection, applying the write
// deadline for the duration of the flush.
func (s *Stream) Flush() error {
	s.applyWriteDeadline()
	return s.w.Flush()
}

// Close closes the underlying connection.
func (s *Stream) Close() error {
	return s.conn.Close()
}

// PollReadable reports whether at least one byte is available to read
// without blocking longer than timeout (component A's poll_readable,
// used by is_open's zero-timeout probe). A timeout of zero polls
// immediately, returning false with a nil error when nothing is
// pending rather than blocking. The stream's configured read deadline
// is restored before returning, so a probe never affects subsequent
// ordinary reads.
func (s *Stream) PollReadable(timeout time.Duration) (bool, error) {
	if timeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(timeout))
	} else {
		_ = s.conn.SetReadDeadline(time.Now())
	}
	_, err := s.r.Peek(1)
	s.applyReadDeadline()
	if s.readTimeout <= 0 {
		_ = s.conn.SetReadDeadline(time.Time{})
	}
	if err == nil {
		return true, nil
	}
	if IsTimeout(err) {
		return false, nil
	}
	return false, err
}

// IsTimeout reports whether err resulted from an I/O deadline expiring.
func IsTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// IsDisconnected reports whether err indicates the peer closed or reset
// the connection, as opposed to a protocol-level failure.
func IsDisconnected(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
