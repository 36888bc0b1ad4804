package wire

import (
	"strconv"
	"strings"
	"time"
)

// Encoder is the command serializer (component D): a fluent builder
// over a Stream that renders IMAP grammar elements, deciding per
// argument whether an atom, quoted string, or literal is required.
//
// Encoder buffers a full command line (and any literal payloads) before
// the caller calls Flush; for a literal that needs a continuation
// handshake, the session orchestrator (component E) writes
// LiteralHeader, flushes, waits for "+" itself, and then writes the
// payload with Raw, so Encoder never blocks on the server.
type Encoder struct {
	s *Stream
}

// NewEncoder builds an Encoder over s.
func NewEncoder(s *Stream) *Encoder {
	return &Encoder{s: s}
}

// Flush pushes the buffered command to the connection.
func (e *Encoder) Flush() error {
	return e.s.Flush()
}

func (e *Encoder) raw(s string) *Encoder {
	_ = e.s.WriteString(s)
	return e
}

// Atom writes a bare atom.
func (e *Encoder) Atom(s string) *Encoder {
	return e.raw(s)
}

// RawString writes s verbatim, for extension syntax this Encoder has no
// dedicated method for.
func (e *Encoder) RawString(s string) *Encoder {
	return e.raw(s)
}

// SP writes a single space.
func (e *Encoder) SP() *Encoder {
	return e.raw(" ")
}

// CRLF terminates the line.
func (e *Encoder) CRLF() *Encoder {
	return e.raw("\r\n")
}

// QuotedString writes s in double quotes, backslash-escaping '"' and
// '\\'.
func (e *Encoder) QuotedString(s string) *Encoder {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return e.raw(b.String())
}

// ArgKind classifies how a string argument must be serialized, per the
// command serializer's argument classification (component D).
type ArgKind int

const (
	ArgAtom ArgKind = iota
	ArgQuoted
	ArgLiteral
)

// ClassifyArg decides how s must be serialized on the wire.
func ClassifyArg(s string) ArgKind {
	if NeedsLiteral(s) {
		return ArgLiteral
	}
	if NeedsQuoting(s) {
		return ArgQuoted
	}
	return ArgAtom
}

// String writes s using whichever of atom/quoted/literal form is
// required. When s needs a literal, Literal is used directly
// (synchronizing literal, spec §3) — callers issuing commands that
// require a "+" continuation before the literal bytes go out must use
// LiteralHeader and Raw and handle the handshake themselves instead.
func (e *Encoder) String(s string) *Encoder {
	switch ClassifyArg(s) {
	case ArgLiteral:
		return e.Literal(s)
	case ArgQuoted:
		return e.QuotedString(s)
	default:
		return e.Atom(s)
	}
}

// AString writes an astring argument (atom or string).
func (e *Encoder) AString(s string) *Encoder {
	return e.String(s)
}

// NString writes an nstring: NIL if s is nil, else String(*s).
func (e *Encoder) NString(s *string) *Encoder {
	if s == nil {
		return e.Nil()
	}
	return e.String(*s)
}

// Nil writes the NIL atom.
func (e *Encoder) Nil() *Encoder {
	return e.raw("NIL")
}

// Number writes an unsigned 32-bit decimal number.
func (e *Encoder) Number(n uint32) *Encoder {
	return e.raw(strconv.FormatUint(uint64(n), 10))
}

// Number64 writes an unsigned 64-bit decimal number.
func (e *Encoder) Number64(n uint64) *Encoder {
	return e.raw(strconv.FormatUint(n, 10))
}

// Literal writes the synchronizing-literal header {n}\r\n followed
// immediately by the literal bytes. The caller's session orchestrator
// is responsible for having already received the "+" continuation
// before calling this for any literal after the first one in a command
// line with more than one literal argument.
func (e *Encoder) Literal(s string) *Encoder {
	e.raw("{")
	e.raw(strconv.Itoa(len(s)))
	e.raw("}\r\n")
	return e.raw(s)
}

// LiteralHeader writes just the {n}\r\n header, for callers that need
// to flush and await a continuation response before writing the
// literal payload itself (spec's continuation-handshake requirement).
func (e *Encoder) LiteralHeader(n int) *Encoder {
	e.raw("{")
	e.raw(strconv.Itoa(n))
	return e.raw("}\r\n")
}

// Raw writes the literal payload bytes with no framing, for use after a
// LiteralHeader + continuation wait.
func (e *Encoder) Raw(data []byte) *Encoder {
	_, _ = e.s.Write(data)
	return e
}

// BeginList writes '('.
func (e *Encoder) BeginList() *Encoder {
	return e.raw("(")
}

// EndList writes ')'.
func (e *Encoder) EndList() *Encoder {
	return e.raw(")")
}

// List writes a parenthesized, space-separated list of astrings.
func (e *Encoder) List(items []string) *Encoder {
	e.BeginList()
	for i, it := range items {
		if i > 0 {
			e.SP()
		}
		e.String(it)
	}
	return e.EndList()
}

// Date writes a date in DD-Mon-YYYY quoted form.
func (e *Encoder) Date(t time.Time) *Encoder {
	return e.QuotedString(t.Format("02-Jan-2006"))
}

// DateTime writes a date-time in DD-Mon-YYYY HH:MM:SS +ZZZZ quoted
// form, used for APPEND's optional internal date.
func (e *Encoder) DateTime(t time.Time) *Encoder {
	return e.QuotedString(t.Format("02-Jan-2006 15:04:05 -0700"))
}

// Tag writes a command tag followed by a space.
func (e *Encoder) Tag(tag string) *Encoder {
	return e.raw(tag).SP()
}

// MailboxName writes a mailbox name, special-casing INBOX to always be
// a bare atom regardless of what characters it contains (RFC 3501
// §5.1).
func (e *Encoder) MailboxName(name string) *Encoder {
	if strings.EqualFold(name, "INBOX") {
		return e.Atom("INBOX")
	}
	return e.AString(name)
}
