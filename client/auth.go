package client

import (
	"encoding/base64"

	"github.com/emersion/go-sasl"

	imapkit "github.com/imapkit/imapkit"
)

// Authenticate drives AUTHENTICATE through the given SASL mechanism
// (RFC 4422), exchanging base64 challenges/responses until the
// mechanism completes or the server rejects the exchange. SASL-IR
// (RFC 4959) is used opportunistically: if mech produces an initial
// response, it rides along on the AUTHENTICATE command line instead of
// costing a round trip.
func (s *Session) Authenticate(mech sasl.Client) error {
	if err := s.checkReleased(); err != nil {
		return err
	}
	if err := s.state.RequireState(imapkit.StateConnected); err != nil {
		return err
	}

	name, ir, err := mech.Start()
	if err != nil {
		return err
	}

	tag := s.nextTag()
	s.enc.Tag(tag).Atom("AUTHENTICATE").SP().Atom(name)
	if ir != nil {
		s.enc.SP()
		if len(ir) == 0 {
			s.enc.Atom("=")
		} else {
			s.enc.AString(base64.StdEncoding.EncodeToString(ir))
		}
	}
	s.enc.CRLF()
	if err := s.enc.Flush(); err != nil {
		return s.classifyIOErr(err)
	}

	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return s.classifyIOErr(err)
		}
		if b != '+' {
			resp, c, err := s.readTaggedOrUntagged(tag)
			if err != nil {
				return err
			}
			if resp == nil {
				continue
			}
			_ = c
			if resp.Type != imapkit.StatusOK {
				return &imapkit.NegativeError{Response: resp}
			}
			return s.state.Transition(imapkit.StateAuthenticated)
		}

		if _, err := s.dec.ExpectAny(); err != nil {
			return s.classifyIOErr(err)
		}
		if err := s.dec.ReadSP(); err != nil {
			return s.classifyIOErr(err)
		}
		line, err := s.readToCRLF()
		if err != nil {
			return s.classifyIOErr(err)
		}
		challenge, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			return imapkit.NewParseError("malformed base64 continuation: %v", err)
		}

		reply, err := mech.Next(challenge)
		if err != nil {
			return err
		}
		s.enc.RawString(base64.StdEncoding.EncodeToString(reply)).CRLF()
		if err := s.enc.Flush(); err != nil {
			return s.classifyIOErr(err)
		}
	}
}

// readTaggedOrUntagged reads exactly one response line. If it is
// untagged, it is accumulated into a fresh collected and nil is
// returned for the StatusResponse so the caller keeps looping; if it
// is the tagged completion for tag, that completion is returned.
func (s *Session) readTaggedOrUntagged(tag string) (*imapkit.StatusResponse, *collected, error) {
	b, err := s.dec.PeekByte()
	if err != nil {
		return nil, nil, err
	}
	if b == '*' {
		c := &collected{}
		if err := s.readUntaggedLine(c); err != nil {
			return nil, nil, err
		}
		return nil, c, nil
	}
	resp, err := s.readTaggedLine()
	if err != nil {
		return nil, nil, err
	}
	if resp.Tag != tag {
		return nil, nil, imapkit.NewParseError("unexpected tag %q, want %q", resp.Tag, tag)
	}
	return resp, nil, nil
}
