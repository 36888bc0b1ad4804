package client

import (
	"strconv"
	"strings"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/wire"
)

// Fetch issues FETCH (or, with uid true, UID FETCH) for the given
// sequence/UID set and returns the reshaped result keyed the way the
// request was made: by sequence number for Fetch, by UID for
// UIDFetch.
func (s *Session) Fetch(set *imapkit.NumSet, opts *imapkit.FetchOptions) (imapkit.FetchResult, error) {
	return s.fetch(set, opts, false)
}

// UIDFetch is Fetch's UID-addressed counterpart.
func (s *Session) UIDFetch(set *imapkit.NumSet, opts *imapkit.FetchOptions) (imapkit.FetchResult, error) {
	return s.fetch(set, opts, true)
}

func (s *Session) fetch(set *imapkit.NumSet, opts *imapkit.FetchOptions, uid bool) (imapkit.FetchResult, error) {
	verb := "FETCH"
	if uid {
		verb = "UID FETCH"
	}
	_, c, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(set.String()) }),
		arg(func(e *wire.Encoder) { writeFetchItems(e, opts, uid) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if c.Fetch == nil {
		return imapkit.FetchResult{}, nil
	}
	return c.Fetch, nil
}

// writeFetchItems builds the FETCH item list. When uid is true (the
// command being built is UID FETCH), "UID" is always included even if
// opts doesn't ask for it, since the façade needs it back to re-key the
// result by UID (spec invariant I5) regardless of what the caller
// requested.
func writeFetchItems(e *wire.Encoder, opts *imapkit.FetchOptions, uid bool) {
	var items []string
	if opts == nil {
		items = []string{"FLAGS"}
		if uid {
			items = append(items, "UID")
		}
	} else {
		if opts.Flags {
			items = append(items, "FLAGS")
		}
		if opts.UID || uid {
			items = append(items, "UID")
		}
		if opts.InternalDate {
			items = append(items, "INTERNALDATE")
		}
		if opts.RFC822Size {
			items = append(items, "RFC822.SIZE")
		}
		if opts.Envelope {
			items = append(items, "ENVELOPE")
		}
		if opts.BodyStructure {
			items = append(items, "BODYSTRUCTURE")
		}
		if opts.Headers {
			items = append(items, "BODY.PEEK[HEADER]")
		}
		for _, bs := range opts.BodySection {
			items = append(items, bodySectionItemName(bs))
		}
	}
	if len(items) == 1 {
		e.Atom(items[0])
		return
	}
	e.List(items)
}

func bodySectionItemName(spec *imapkit.BodySectionSpec) string {
	var b strings.Builder
	if spec.Peek {
		b.WriteString("BODY.PEEK[")
	} else {
		b.WriteString("BODY[")
	}
	b.WriteString(spec.String())
	b.WriteByte(']')
	if spec.Partial != nil {
		b.WriteByte('<')
		b.WriteString(strconv.FormatInt(spec.Partial.Offset, 10))
		b.WriteByte('.')
		b.WriteString(strconv.FormatInt(spec.Partial.Count, 10))
		b.WriteByte('>')
	}
	return b.String()
}

// Store issues STORE (or, with uid true, UID STORE) to add, remove, or
// replace flags on the given set. silent suppresses the untagged FETCH
// responses the server would otherwise send back (".SILENT" suffix).
func (s *Session) Store(set *imapkit.NumSet, action imapkit.StoreAction, flags []imapkit.Flag, silent bool) (imapkit.FetchResult, error) {
	return s.store(set, action, flags, silent, false)
}

// UIDStore is Store's UID-addressed counterpart.
func (s *Session) UIDStore(set *imapkit.NumSet, action imapkit.StoreAction, flags []imapkit.Flag, silent bool) (imapkit.FetchResult, error) {
	return s.store(set, action, flags, silent, true)
}

func (s *Session) store(set *imapkit.NumSet, action imapkit.StoreAction, flags []imapkit.Flag, silent, uid bool) (imapkit.FetchResult, error) {
	verb := "STORE"
	if uid {
		verb = "UID STORE"
	}
	item := action.String()
	if silent {
		item += ".SILENT"
	}
	raw := make([]string, len(flags))
	for i, f := range flags {
		raw[i] = string(f)
	}
	_, c, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(set.String()) }),
		arg(func(e *wire.Encoder) { e.Atom(item) }),
		arg(func(e *wire.Encoder) { e.List(raw) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.Fetch, nil
}

// Search issues SEARCH (or, with uid true, UID SEARCH) and returns the
// matching sequence numbers or UIDs.
func (s *Session) Search(criteria *imapkit.SearchCriteria) ([]uint32, error) {
	return s.search(criteria, false)
}

// UIDSearch is Search's UID-addressed counterpart.
func (s *Session) UIDSearch(criteria *imapkit.SearchCriteria) ([]uint32, error) {
	return s.search(criteria, true)
}

func (s *Session) search(criteria *imapkit.SearchCriteria, uid bool) ([]uint32, error) {
	verb := "SEARCH"
	if uid {
		verb = "UID SEARCH"
	}
	_, c, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(buildSearchQuery(criteria)) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.Search, nil
}

func buildSearchQuery(c *imapkit.SearchCriteria) string {
	if c == nil {
		return "ALL"
	}
	var parts []string
	if !c.Since.IsZero() {
		parts = append(parts, "SINCE "+c.Since.Format("02-Jan-2006"))
	}
	if !c.Before.IsZero() {
		parts = append(parts, "BEFORE "+c.Before.Format("02-Jan-2006"))
	}
	if !c.SentSince.IsZero() {
		parts = append(parts, "SENTSINCE "+c.SentSince.Format("02-Jan-2006"))
	}
	if !c.SentBefore.IsZero() {
		parts = append(parts, "SENTBEFORE "+c.SentBefore.Format("02-Jan-2006"))
	}
	if !c.On.IsZero() {
		parts = append(parts, "ON "+c.On.Format("02-Jan-2006"))
	}
	for name, val := range c.Header {
		parts = append(parts, "HEADER "+name+" \""+val+"\"")
	}
	for _, b := range c.Body {
		parts = append(parts, "BODY \""+b+"\"")
	}
	for _, t := range c.Text {
		parts = append(parts, "TEXT \""+t+"\"")
	}
	if c.Larger > 0 {
		parts = append(parts, "LARGER "+strconv.FormatInt(c.Larger, 10))
	}
	if c.Smaller > 0 {
		parts = append(parts, "SMALLER "+strconv.FormatInt(c.Smaller, 10))
	}
	for _, f := range c.Flag {
		parts = append(parts, searchFlagKeyword(f, false))
	}
	for _, f := range c.NotFlag {
		parts = append(parts, searchFlagKeyword(f, true))
	}
	if c.SeqSet != nil && !c.SeqSet.IsEmpty() {
		parts = append(parts, c.SeqSet.String())
	}
	if c.UIDSet != nil && !c.UIDSet.IsEmpty() {
		parts = append(parts, "UID "+c.UIDSet.String())
	}
	if c.Raw != "" {
		parts = append(parts, c.Raw)
	}
	if len(parts) == 0 {
		return "ALL"
	}
	return strings.Join(parts, " ")
}

func searchFlagKeyword(f imapkit.Flag, not bool) string {
	name := strings.ToUpper(strings.TrimPrefix(string(f), "\\"))
	kw := name
	switch name {
	case "SEEN", "ANSWERED", "FLAGGED", "DELETED", "DRAFT", "RECENT":
		kw = name
	default:
		return "" // keyword flags are passed via Raw
	}
	if not {
		return "NOT " + kw
	}
	return kw
}

// Sort issues SORT (RFC 5256 §3), a SEARCH variant with sort criteria.
func (s *Session) Sort(criteria []imapkit.SortCriterion, search *imapkit.SearchCriteria) ([]uint32, error) {
	_, c, err := s.execCommand("SORT", []commandArg{
		arg(func(e *wire.Encoder) { e.List(sortCriteriaStrings(criteria)) }),
		arg(func(e *wire.Encoder) { e.Atom("UTF-8") }),
		arg(func(e *wire.Encoder) { e.RawString(buildSearchQuery(search)) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.Sort, nil
}

func sortCriteriaStrings(cs []imapkit.SortCriterion) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Reverse {
			out = append(out, "REVERSE", string(c.Key))
		} else {
			out = append(out, string(c.Key))
		}
	}
	return out
}

// Thread issues THREAD (RFC 5256 §4).
func (s *Session) Thread(alg imapkit.ThreadAlgorithm, search *imapkit.SearchCriteria) ([]*imapkit.Thread, error) {
	_, c, err := s.execCommand("THREAD", []commandArg{
		arg(func(e *wire.Encoder) { e.Atom(string(alg)) }),
		arg(func(e *wire.Encoder) { e.Atom("UTF-8") }),
		arg(func(e *wire.Encoder) { e.RawString(buildSearchQuery(search)) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.Thread, nil
}

// Copy issues COPY (or, with uid true, UID COPY).
func (s *Session) Copy(set *imapkit.NumSet, destMailbox string) (*imapkit.CopyData, error) {
	return s.copy(set, destMailbox, false)
}

// UIDCopy is Copy's UID-addressed counterpart.
func (s *Session) UIDCopy(set *imapkit.NumSet, destMailbox string) (*imapkit.CopyData, error) {
	return s.copy(set, destMailbox, true)
}

func (s *Session) copy(set *imapkit.NumSet, destMailbox string, uid bool) (*imapkit.CopyData, error) {
	verb := "COPY"
	if uid {
		verb = "UID COPY"
	}
	resp, _, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(set.String()) }),
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(destMailbox)) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return parseCopyUID(resp)
}

// Move issues MOVE (RFC 6851), or falls back to COPY + STORE +EXPUNGE
// sequencing when MOVE is not advertised.
func (s *Session) Move(set *imapkit.NumSet, destMailbox string) (*imapkit.CopyData, error) {
	return s.move(set, destMailbox, false)
}

// UIDMove is Move's UID-addressed counterpart.
func (s *Session) UIDMove(set *imapkit.NumSet, destMailbox string) (*imapkit.CopyData, error) {
	return s.move(set, destMailbox, true)
}

func (s *Session) move(set *imapkit.NumSet, destMailbox string, uid bool) (*imapkit.CopyData, error) {
	if s.capabilities == nil || !s.capabilities.Has(imapkit.Cap("MOVE")) {
		return s.moveFallback(set, destMailbox, uid)
	}
	verb := "MOVE"
	if uid {
		verb = "UID MOVE"
	}
	resp, _, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(set.String()) }),
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(destMailbox)) }),
	}, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return parseCopyUID(resp)
}

func (s *Session) moveFallback(set *imapkit.NumSet, destMailbox string, uid bool) (*imapkit.CopyData, error) {
	var data *imapkit.CopyData
	var err error
	if uid {
		data, err = s.UIDCopy(set, destMailbox)
	} else {
		data, err = s.Copy(set, destMailbox)
	}
	if err != nil {
		return nil, err
	}
	if uid {
		_, err = s.UIDStore(set, imapkit.StoreFlagsAdd, []imapkit.Flag{imapkit.FlagDeleted}, true)
	} else {
		_, err = s.Store(set, imapkit.StoreFlagsAdd, []imapkit.Flag{imapkit.FlagDeleted}, true)
	}
	if err != nil {
		return data, err
	}
	return data, s.Expunge()
}

func parseCopyUID(resp *imapkit.StatusResponse) (*imapkit.CopyData, error) {
	if resp == nil || resp.Code != imapkit.CodeCopyUID {
		return nil, nil
	}
	fields := strings.Fields(resp.CodeArg)
	if len(fields) != 3 {
		return nil, imapkit.NewParseError("malformed COPYUID response code %q", resp.CodeArg)
	}
	validity, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return nil, err
	}
	src, err := imapkit.ParseNumSet(fields[1])
	if err != nil {
		return nil, err
	}
	dst, err := imapkit.ParseNumSet(fields[2])
	if err != nil {
		return nil, err
	}
	return &imapkit.CopyData{UIDValidity: uint32(validity), SourceUIDs: src, DestUIDs: dst}, nil
}

// Expunge issues EXPUNGE, permanently removing \Deleted messages in
// the selected mailbox. Per spec's resolved open question, a
// successful EXPUNGE invalidates the session's cached EXISTS/RECENT
// counts, since the untagged EXPUNGE responses that precede the
// tagged completion only decrement them one at a time and the server
// is not required to send one per removed message in every case.
func (s *Session) Expunge() error {
	_, _, err := s.execCommand("EXPUNGE", nil, imapkit.StateSelected)
	s.existsCache = nil
	s.recentCache = nil
	return err
}

// UIDExpunge issues UID EXPUNGE (RFC 4315 §2.1), expunging only the
// given UIDs.
func (s *Session) UIDExpunge(set *imapkit.NumSet) error {
	_, _, err := s.execCommand("UID EXPUNGE", []commandArg{
		arg(func(e *wire.Encoder) { e.RawString(set.String()) }),
	}, imapkit.StateSelected)
	s.existsCache = nil
	s.recentCache = nil
	return err
}

// Append issues APPEND, uploading message as a synchronizing literal.
func (s *Session) Append(mailbox string, message []byte, opts *imapkit.AppendOptions) (*imapkit.AppendData, error) {
	args := []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
	}
	if opts != nil && len(opts.Flags) > 0 {
		raw := make([]string, len(opts.Flags))
		for i, f := range opts.Flags {
			raw[i] = string(f)
		}
		args = append(args, arg(func(e *wire.Encoder) { e.List(raw) }))
	}
	if opts != nil && !opts.InternalDate.IsZero() {
		args = append(args, arg(func(e *wire.Encoder) { e.DateTime(opts.InternalDate) }))
	}
	args = append(args, commandArg{lit: true, literal: string(message)})

	resp, _, err := s.execCommand("APPEND", args, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return parseAppendUID(resp)
}

func parseAppendUID(resp *imapkit.StatusResponse) (*imapkit.AppendData, error) {
	if resp == nil || resp.Code != imapkit.CodeAppendUID {
		return nil, nil
	}
	fields := strings.Fields(resp.CodeArg)
	if len(fields) != 2 {
		return nil, imapkit.NewParseError("malformed APPENDUID response code %q", resp.CodeArg)
	}
	validity, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return nil, err
	}
	uidN, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, err
	}
	return &imapkit.AppendData{UIDValidity: uint32(validity), UID: imapkit.UID(uidN)}, nil
}
