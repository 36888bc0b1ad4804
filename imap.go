// Package imap defines the shared vocabulary of the IMAP4rev1 client core:
// connection state, flags, addresses, envelopes, body structures, and the
// option/result types used by the public operations façade in package
// client. It has no knowledge of the wire format or of any particular
// transport; those live in package wire and package client respectively.
package imap

import (
	"fmt"
	"strings"
	"time"
)

// ConnState is the position of a Session in the IMAP state machine
// described by RFC 3501 §3 and enforced locally per spec invariant I4.
type ConnState int

const (
	// StateUnconnected is the state before the server greeting has been
	// read, and the state a Session falls back to after LOGOUT or a
	// fatal I/O error.
	StateUnconnected ConnState = iota
	// StateConnected is reached once the greeting is consumed; commands
	// valid in the not-authenticated state (LOGIN, STARTTLS, CAPABILITY)
	// are legal here.
	StateConnected
	// StateAuthenticated is reached after a successful LOGIN or
	// AUTHENTICATE, or via CLOSE/UNSELECT from StateSelected.
	StateAuthenticated
	// StateSelected is reached after a successful SELECT or EXAMINE.
	StateSelected
)

// String returns a human-readable name for the state.
func (s ConnState) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateSelected:
		return "selected"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Flag is an IMAP message flag, either one of the standard backslash
// flags or a server/client-defined keyword.
type Flag string

// Standard message flags (RFC 3501 §2.3.2).
const (
	FlagSeen     Flag = "\\Seen"
	FlagAnswered Flag = "\\Answered"
	FlagFlagged  Flag = "\\Flagged"
	FlagDeleted  Flag = "\\Deleted"
	FlagDraft    Flag = "\\Draft"
	FlagRecent   Flag = "\\Recent"
	FlagWildcard Flag = "\\*"
)

// MailboxAttr is a mailbox attribute reported in a LIST/LSUB response.
type MailboxAttr string

// Standard mailbox attributes (RFC 3501 §7.2.2, RFC 6154).
const (
	MailboxAttrNoInferiors   MailboxAttr = "\\Noinferiors"
	MailboxAttrNoSelect      MailboxAttr = "\\Noselect"
	MailboxAttrMarked        MailboxAttr = "\\Marked"
	MailboxAttrUnmarked      MailboxAttr = "\\Unmarked"
	MailboxAttrHasChildren   MailboxAttr = "\\HasChildren"
	MailboxAttrHasNoChildren MailboxAttr = "\\HasNoChildren"

	MailboxAttrAll     MailboxAttr = "\\All"
	MailboxAttrArchive MailboxAttr = "\\Archive"
	MailboxAttrDrafts  MailboxAttr = "\\Drafts"
	MailboxAttrFlagged MailboxAttr = "\\Flagged"
	MailboxAttrJunk    MailboxAttr = "\\Junk"
	MailboxAttrSent    MailboxAttr = "\\Sent"
	MailboxAttrTrash   MailboxAttr = "\\Trash"
)

// UID is a per-mailbox-incarnation unique message identifier.
type UID uint32

// SeqNum is a per-session message sequence number.
type SeqNum uint32

// Address is one address entry inside an Envelope field, matching the
// 4-tuple (display-name, source-route, mailbox-name, host-name) that
// ENVELOPE carries on the wire.
type Address struct {
	Name    string
	Mailbox string
	Host    string

	// SourceRoute is the 4-tuple's source-route element. RFC 3501
	// deprecates source routing and the reshaped From/Sender/...
	// fields drop it; it is only ever populated on the Raw* address
	// lists (IncludeRawAddresses).
	SourceRoute string
}

// String renders the address as `"Display" <mailbox@host>`, omitting the
// display name and angle brackets when Name is empty, per spec §4.G.
func (a *Address) String() string {
	addr := a.Mailbox + "@" + a.Host
	if a.Name != "" {
		return fmt.Sprintf("%q <%s>", a.Name, addr)
	}
	return addr
}

// FormatAddressList renders a slice of addresses as a single comma-joined
// string, the format used for the reshaped From/To/Cc/... envelope fields.
func FormatAddressList(addrs []*Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Envelope is the reshaped ENVELOPE fetch item: the RFC 2822 header
// fields the server pre-parses for the client.
type Envelope struct {
	Date      time.Time
	Subject   string
	From      []*Address
	Sender    []*Address
	ReplyTo   []*Address
	To        []*Address
	Cc        []*Address
	Bcc       []*Address
	InReplyTo string
	MessageID string

	// RawFrom, RawSender, ... hold the unreshaped 4-tuple lists; set only
	// when the session's IncludeRawAddresses parse-mode flag is on.
	RawFrom    []*Address
	RawSender  []*Address
	RawReplyTo []*Address
	RawTo      []*Address
	RawCc      []*Address
	RawBcc     []*Address
}

// BodyStructure is the reshaped BODYSTRUCTURE (or BODY) fetch item. A node
// is either a multipart (Children non-empty, Type == "multipart") or a
// leaf part; see spec §4.G for the full reshape algorithm.
type BodyStructure struct {
	Type    string
	Subtype string
	Params  map[string]string

	ID          string
	Description string
	Encoding    string
	Size        uint32
	Lines       uint32

	Envelope      *Envelope      // message/rfc822 only
	BodyStructure *BodyStructure // message/rfc822 only

	MD5               string
	Disposition       string
	DispositionParams map[string]string
	Language          []string
	Location          string

	Children []*BodyStructure // multipart only

	// PartNum is the dotted IMAP part number ("" at the multipart root,
	// "1", "1.2", "1.2.1", ...) a later BODY[<n>] fetch would use to
	// retrieve this node.
	PartNum string
	// MIMEType is "type/subtype", both lowercased.
	MIMEType string
}

// IsMultipart reports whether this node is a MIME multipart container.
func (bs *BodyStructure) IsMultipart() bool {
	return bs != nil && strings.EqualFold(bs.Type, "multipart")
}

// IsMessageRFC822 reports whether this leaf wraps an embedded message.
func (bs *BodyStructure) IsMessageRFC822() bool {
	return bs != nil && strings.EqualFold(bs.Type, "message") && strings.EqualFold(bs.Subtype, "rfc822")
}

// SectionPartial is the `<offset.count>` partial-fetch byte range for a
// BODY[section] fetch item.
type SectionPartial struct {
	Offset int64
	Count  int64
}

// BodySectionSpec identifies one BODY[section] fetch item.
type BodySectionSpec struct {
	// Specifier is HEADER, HEADER.FIELDS, HEADER.FIELDS.NOT, TEXT, MIME,
	// or "" for the whole part/message.
	Specifier string
	// Part is the dotted MIME part address, e.g. []int{1, 2} for "1.2".
	Part []int
	// Fields lists header field names for HEADER.FIELDS[.NOT].
	Fields []string
	// Peek requests BODY.PEEK (does not set \Seen).
	Peek bool
	// Partial is the optional `<offset.count>` byte range.
	Partial *SectionPartial
}

// String renders the section spec the way it appears inside BODY[...],
// without the surrounding brackets.
func (s *BodySectionSpec) String() string {
	var b strings.Builder
	for i, p := range s.Part {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", p)
	}
	if s.Specifier != "" {
		if len(s.Part) > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Specifier)
		if len(s.Fields) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(s.Fields, " "))
			b.WriteByte(')')
		}
	}
	return b.String()
}

// InternalDateLayout is the time.Parse/time.Format layout for the IMAP
// internal date format, e.g. "02-Jan-2006 15:04:05 -0700".
const InternalDateLayout = "02-Jan-2006 15:04:05 -0700"

// CreateOptions configures the CREATE command.
type CreateOptions struct {
	// SpecialUse requests a RFC 6154 special-use attribute at creation.
	SpecialUse MailboxAttr
}
