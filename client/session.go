// Package client implements the synchronous IMAP4rev1 session: command
// issuance, response parsing, and the public verb façade built on top
// of the wire package's byte-stream, tokenizer, and encoder layers.
package client

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/headerdecode"
	"github.com/imapkit/imapkit/wire"
)

// Session is a single IMAP4rev1 connection. It is not safe for
// concurrent use: spec §5 mandates exactly one command in flight at a
// time, with StatusMany (which still sends its STATUS commands one at
// a time) as the only multi-target operation, so a Session carries no
// internal locking. Call Session methods from
// one goroutine at a time; share a pool of Sessions across goroutines
// instead of sharing one Session.
type Session struct {
	conn   net.Conn
	stream *wire.Stream
	dec    *wire.Decoder
	enc    *wire.Encoder

	opts  *Options
	state *stateMachine

	tagCounter int

	capabilities *imapkit.CapabilitySet
	codeCache    map[string]string

	existsCache         *uint32
	recentCache         *uint32
	uidNextCache        *uint32
	uidValidityCache    *uint32
	unseenCache         *uint32
	permanentFlagsCache []imapkit.Flag

	selected *string

	folder        *folderRewriter
	headerDecoder headerdecode.Decoder

	// uidInFlight is set by execCommand for the duration of a "UID ..."
	// command so readUntaggedNumeric's FETCH branch knows to key the
	// result by UID instead of sequence number (spec invariant I5).
	// Single-command-in-flight means this never races.
	uidInFlight bool

	released bool
}

// Dial opens a plaintext TCP connection to addr ("host:port") and reads
// the server greeting.
func Dial(addr string, opts ...Option) (*Session, error) {
	conn, err := net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return newSession(conn, opts)
}

// DialTLS opens a TLS connection to addr and reads the server greeting.
func DialTLS(addr string, opts ...Option) (*Session, error) {
	o := applyOptions(opts)
	rawConn, err := net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return nil, err
	}
	tlsConn := tls.Client(rawConn, ensureServerName(o.TLSConfig, addr))
	_ = rawConn.SetDeadline(time.Now().Add(30 * time.Second))
	if err := tlsConn.Handshake(); err != nil {
		_ = rawConn.Close()
		return nil, err
	}
	_ = rawConn.SetDeadline(time.Time{})
	return newSessionFromConnAndOptions(tlsConn, o)
}

// New wraps an already-established connection (e.g. one your own
// dialer produced) in a Session and reads the greeting.
func New(conn net.Conn, opts ...Option) (*Session, error) {
	return newSession(conn, opts)
}

// ensureServerName returns cfg (or a fresh config) with ServerName set
// from addr's host when the caller didn't already specify one.
func ensureServerName(cfg *tls.Config, addr string) *tls.Config {
	out := cfg.Clone()
	if out == nil {
		out = &tls.Config{}
	}
	if out.ServerName == "" {
		host, _, err := net.SplitHostPort(addr)
		if err == nil {
			out.ServerName = host
		}
	}
	return out
}

func applyOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func newSession(conn net.Conn, opts []Option) (*Session, error) {
	return newSessionFromConnAndOptions(conn, applyOptions(opts))
}

func newSessionFromConnAndOptions(conn net.Conn, o *Options) (*Session, error) {
	stream := wire.NewStream(conn, o.ReadTimeout, o.WriteTimeout)
	if o.Trace != nil {
		stream.SetTrace(o.Trace)
	}
	hd := o.HeaderDecoder
	if hd == nil {
		hd = headerdecode.Default()
	}
	s := &Session{
		conn:          conn,
		stream:        stream,
		dec:           wire.NewDecoder(stream),
		enc:           wire.NewEncoder(stream),
		opts:          o,
		state:         newStateMachine(imapkit.StateConnected),
		codeCache:     make(map[string]string),
		folder:        newFolderRewriter(o.FolderRoot, o.FolderSeparator, o.FolderAltRoot, o.FolderCaseInsensitive),
		headerDecoder: hd,
	}
	if err := s.readGreeting(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// readGreeting consumes the server's initial untagged OK/PREAUTH/BYE
// line (RFC 3501 §7.1.4/§7.1.5).
func (s *Session) readGreeting() error {
	c := &collected{}
	if err := s.readUntaggedLine(c); err != nil {
		return s.classifyIOErr(err)
	}
	if c.Bye != "" {
		return imapkit.NewStateError("server sent BYE at connect: %s", c.Bye)
	}
	if c.StatusType == imapkit.StatusPREAUTH {
		return s.state.Transition(imapkit.StateAuthenticated)
	}
	return nil
}

// IsOpen probes the connection without blocking (spec §4.E). It is only
// meaningful between commands, when the Session has nothing outstanding
// to read: a zero-timeout poll of the stream distinguishes three
// outcomes. No bytes pending means the connection is live. An
// unsolicited BYE means the peer is live but closing — the Session
// transitions to Unconnected and IsOpen reports false. Any other
// unsolicited untagged data (an alert, a flag update) is consumed and
// ignored, and the poll repeats in case more is queued. An I/O error
// also transitions to Unconnected and reports false.
func (s *Session) IsOpen() bool {
	if s.released || s.state.State() == imapkit.StateUnconnected {
		return false
	}
	for {
		readable, err := s.stream.PollReadable(0)
		if err != nil {
			_ = s.state.Transition(imapkit.StateUnconnected)
			return false
		}
		if !readable {
			return true
		}

		c := &collected{}
		if err := s.readUntaggedLine(c); err != nil {
			_ = s.state.Transition(imapkit.StateUnconnected)
			return false
		}
		if c.Bye != "" {
			_ = s.state.Transition(imapkit.StateUnconnected)
			return false
		}
		// Unsolicited alert/notification: consumed, loop to drain
		// anything else already queued.
	}
}

// nextTag returns the next command tag. Tags are a decimal counter
// starting at 1, formatted with a fixed "A" prefix; because a Session
// never has more than one command outstanding, reuse across completed
// commands is safe, but the counter is still monotonic and never
// repeats within a connection's lifetime (spec invariant I1).
func (s *Session) nextTag() string {
	s.tagCounter++
	return "A" + strconv.Itoa(s.tagCounter)
}

// State returns the connection's current IMAP state.
func (s *Session) State() imapkit.ConnState {
	return s.state.State()
}

// Capabilities returns the most recently cached capability set, or nil
// if the server has not reported one yet.
func (s *Session) Capabilities() *imapkit.CapabilitySet {
	return s.capabilities
}

// Close closes the underlying connection without sending LOGOUT. Use
// Logout for a clean shutdown.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Release marks the Session unusable and returns the underlying
// net.Conn to the caller, who becomes responsible for it. Any further
// Session method call returns ErrReleased.
func (s *Session) Release() net.Conn {
	s.released = true
	return s.conn
}

func (s *Session) checkReleased() error {
	if s.released {
		return imapkit.ErrReleased
	}
	return nil
}

// classifyIOErr maps a raw I/O error from the wire layer onto the
// taxonomy in spec §7: timeouts and disconnects are distinguished from
// generic parse failures so callers can decide whether the session is
// salvageable.
func (s *Session) classifyIOErr(err error) error {
	if err == nil {
		return nil
	}
	if wire.IsTimeout(err) {
		return fmt.Errorf("%w: %v", imapkit.ErrTimeout, err)
	}
	if wire.IsDisconnected(err) {
		_ = s.state.Transition(imapkit.StateUnconnected)
		return fmt.Errorf("%w: %v", imapkit.ErrDisconnected, err)
	}
	return imapkit.NewParseError("%v", err)
}
