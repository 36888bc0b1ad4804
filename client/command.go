package client

import (
	"fmt"
	"strings"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/wire"
)

// commandArg is one argument to be written to the command line. astring
// arguments containing bytes that NeedsLiteral reports (CR, LF, NUL or
// non-ASCII) are sent as literals, their payload written only after the
// continuation handshake for that position completes — this is the
// orchestration spec §4.D/§4.E calls for: encoding decides the
// representation, the session drives the handshake.
type commandArg struct {
	lit     bool
	literal string
	write   func(*wire.Encoder)
}

// arg builds a plain, pre-rendered argument (atom, quoted string,
// number, list, ...), written unconditionally with no literal
// handshake.
func arg(write func(*wire.Encoder)) commandArg {
	return commandArg{write: write}
}

// argString builds an astring argument, automatically becoming a
// literal (with its own continuation wait) when s requires one.
func argString(s string) commandArg {
	if wire.ClassifyArg(s) == wire.ArgLiteral {
		return commandArg{lit: true, literal: s}
	}
	return commandArg{write: func(e *wire.Encoder) { e.String(s) }}
}

// execCommand is the single path every façade verb uses to run a
// command end to end (component E): write the tag and verb, write each
// argument (waiting on "+" continuations as needed), flush, then read
// untagged lines until the tagged completion arrives.
//
// Per spec invariant I3, a non-OK tagged completion is reported as an
// error (*imapkit.NegativeError) but leaves the session itself usable;
// only I/O failures and parse failures are treated as fatal to the
// connection.
func (s *Session) execCommand(verb string, args []commandArg, requireState ...imapkit.ConnState) (*imapkit.StatusResponse, *collected, error) {
	if err := s.checkReleased(); err != nil {
		return nil, nil, err
	}
	if len(requireState) > 0 {
		if err := s.state.RequireState(requireState...); err != nil {
			return nil, nil, err
		}
	}

	tag := s.nextTag()
	s.enc.Tag(tag).Atom(verb)
	s.uidInFlight = strings.HasPrefix(strings.ToUpper(verb), "UID ")

	for _, a := range args {
		s.enc.SP()
		if !a.lit {
			a.write(s.enc)
			continue
		}
		if err := s.writeLiteralArg(a.literal); err != nil {
			return nil, nil, s.classifyIOErr(err)
		}
	}
	s.enc.CRLF()

	if err := s.enc.Flush(); err != nil {
		return nil, nil, s.classifyIOErr(err)
	}

	return s.readUntilTagged(tag)
}

// writeLiteralArg sends a synchronizing literal header, flushes, waits
// for the server's "+" continuation, then writes the payload. A
// non-continuation response here (a premature tagged NO/BAD) is the
// "continuation-handshake failure" case spec §8 calls out by name: the
// command is aborted and the caller sees the server's rejection instead
// of hanging.
func (s *Session) writeLiteralArg(payload string) error {
	s.enc.LiteralHeader(len(payload))
	if err := s.enc.Flush(); err != nil {
		return err
	}
	if err := s.awaitContinuation(); err != nil {
		return err
	}
	s.enc.Raw([]byte(payload))
	return nil
}

// awaitContinuation reads exactly one response line, expecting "+ ".
// If the server instead sends a tagged failure (it has rejected the
// command outright and will never send "+"), that is surfaced as a
// NegativeError rather than leaving the caller waiting forever.
func (s *Session) awaitContinuation() error {
	b, err := s.dec.PeekByte()
	if err != nil {
		return err
	}
	if b == '+' {
		if _, err := s.dec.ExpectAny(); err != nil {
			return err
		}
		return s.dec.DiscardLine()
	}
	if b == '*' {
		c := &collected{}
		if err := s.readUntaggedLine(c); err != nil {
			return err
		}
		return s.awaitContinuation()
	}
	// A tag here means the server rejected the command before we
	// finished sending it.
	resp, err := s.readTaggedLine()
	if err != nil {
		return err
	}
	return &imapkit.NegativeError{Response: resp}
}

// readUntilTagged reads response lines until the one tagged with tag
// arrives, accumulating every untagged line along the way.
func (s *Session) readUntilTagged(tag string) (*imapkit.StatusResponse, *collected, error) {
	c := &collected{}
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, nil, s.classifyIOErr(err)
		}
		switch b {
		case '*':
			if err := s.readUntaggedLine(c); err != nil {
				return nil, nil, s.classifyIOErr(err)
			}
			if c.Bye != "" {
				_ = s.state.Transition(imapkit.StateUnconnected)
				return nil, c, imapkit.NewStateError("server sent BYE: %s", c.Bye)
			}
		case '+':
			// A stray continuation outside of a literal handshake: discard.
			if _, err := s.dec.ExpectAny(); err != nil {
				return nil, nil, s.classifyIOErr(err)
			}
			if err := s.dec.DiscardLine(); err != nil {
				return nil, nil, s.classifyIOErr(err)
			}
		default:
			resp, err := s.readTaggedLine()
			if err != nil {
				return nil, nil, s.classifyIOErr(err)
			}
			if resp.Tag != tag {
				return nil, nil, imapkit.NewParseError("unexpected tag %q, want %q", resp.Tag, tag)
			}
			if resp.Type != imapkit.StatusOK {
				return resp, c, &imapkit.NegativeError{Response: resp}
			}
			return resp, c, nil
		}
	}
}

func (s *Session) readTaggedLine() (*imapkit.StatusResponse, error) {
	tag, err := s.dec.ReadAtom()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	kw, err := s.dec.ReadAtom()
	if err != nil {
		return nil, err
	}
	typ, err := statusTypeFromAtom(kw)
	if err != nil {
		return nil, err
	}
	code, text, err := s.readStatusRest()
	if err != nil {
		return nil, err
	}
	s.cacheResponseCode(code, text)
	name, codeArg := splitCode(code)
	return &imapkit.StatusResponse{Tag: tag, Type: typ, Code: imapkit.ResponseCode(name), CodeArg: codeArg, Text: text}, nil
}

func splitCode(code string) (name, arg string) {
	if i := strings.IndexByte(code, ' '); i >= 0 {
		return code[:i], code[i+1:]
	}
	return code, ""
}

func statusTypeFromAtom(kw string) (imapkit.StatusResponseType, error) {
	switch kw {
	case "OK":
		return imapkit.StatusOK, nil
	case "NO":
		return imapkit.StatusNO, nil
	case "BAD":
		return imapkit.StatusBAD, nil
	case "PREAUTH":
		return imapkit.StatusPREAUTH, nil
	case "BYE":
		return imapkit.StatusBYE, nil
	default:
		return "", fmt.Errorf("imap: unknown status response type %q", kw)
	}
}
