package imap

import (
	"io"
	"time"
)

// FetchOptions selects which data items a FETCH/UID FETCH call retrieves.
// The façade translates this into the FETCH item list on the wire.
type FetchOptions struct {
	Flags         bool
	UID           bool
	InternalDate  bool
	RFC822Size    bool
	Envelope      bool
	BodyStructure bool
	BodySection   []*BodySectionSpec
	Headers       bool // shorthand for BODY.PEEK[HEADER]
}

// BodySectionResult is the literal payload for one fetched BODY[section].
type BodySectionResult struct {
	Spec *BodySectionSpec
	// Data holds the section bytes, always read into memory.
	Data []byte
	// Headers is populated in addition to Data when Spec names HEADER or
	// HEADER.FIELDS[.NOT]: a map from lowercased header name to the
	// ordered list of raw field-body values (spec §4.G), continuation
	// lines kept with their CRLF.
	Headers map[string][]string
}

// MessageAttrs is one message's reshaped FETCH record: a record-of-
// optionals over the well-known items, plus Raw for anything this core
// does not reshape by name (spec §9 design note 1). Num is the sequence
// number, or the UID when the response answers a UID command (UIDFetch,
// UIDStore) and carries a UID item; there is no session-wide UID mode.
// The "uid" item is never duplicated in Raw.
type MessageAttrs struct {
	Num uint32

	Flags        []Flag
	HasFlags     bool
	UID          UID
	HasUID       bool
	InternalDate time.Time
	HasInternalDate bool
	RFC822Size   int64
	HasRFC822Size bool

	Envelope      *Envelope
	BodyStructure *BodyStructure

	BodySection map[string]*BodySectionResult // keyed by BodySectionSpec.String()

	Raw map[string]interface{}
}

// FetchResult is the full reshaped FETCH response, keyed by sequence
// number, or by UID for the responses to a UID command (spec §3, FETCH
// record).
type FetchResult map[uint32]*MessageAttrs

// LiteralSink is the interface for a destination that takes literal
// bytes as they stream off the wire. No Session option installs one:
// fetched literals are always read into BodySectionResult.Data.
type LiteralSink interface {
	io.Writer
}
