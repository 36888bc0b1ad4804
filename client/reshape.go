package client

import (
	"strconv"
	"strings"
	"time"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/headerdecode"
	"github.com/imapkit/imapkit/wire"
)

// readFetchAttrs parses one "* <num> FETCH (...)" message data item
// into a record-of-optionals (component G), after the leading "<num> "
// has already been consumed by the caller.
func (s *Session) readFetchAttrs(num uint32) (*imapkit.MessageAttrs, error) {
	attrs := &imapkit.MessageAttrs{Num: num, Raw: map[string]interface{}{}}

	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}

	err := s.dec.ReadList(func(i int) error {
		item, err := s.dec.ReadAtom()
		if err != nil {
			return err
		}
		item = strings.ToUpper(item)
		if strings.HasPrefix(item, "BODY[") || strings.HasPrefix(item, "BODY.PEEK[") {
			for {
				b, err := s.dec.PeekByte()
				if err != nil {
					return err
				}
				if b == ']' {
					break
				}
				ch, err := s.dec.ExpectAny()
				if err != nil {
					return err
				}
				item += string(ch)
			}
			if _, err := s.dec.ExpectAny(); err != nil { // consume ']'
				return err
			}
			item += "]"
			if b, err := s.dec.PeekByte(); err == nil && b == '<' {
				for {
					ch, err := s.dec.ExpectAny()
					if err != nil {
						return err
					}
					item += string(ch)
					if ch == '>' {
						break
					}
				}
			}
		}
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		return s.readFetchItem(item, attrs)
	})
	return attrs, err
}

func (s *Session) readFetchItem(item string, attrs *imapkit.MessageAttrs) error {
	switch {
	case item == "FLAGS":
		raw, err := s.dec.ReadFlags()
		if err != nil {
			return err
		}
		attrs.Flags = flagsFromStrings(raw)
		attrs.HasFlags = true
		return nil

	case item == "UID":
		n, err := s.dec.ReadNumber()
		if err != nil {
			return err
		}
		attrs.UID = imapkit.UID(n)
		attrs.HasUID = true
		return nil

	case item == "INTERNALDATE":
		str, _, err := s.dec.ReadNString()
		if err != nil {
			return err
		}
		if t, perr := time.Parse(imapkit.InternalDateLayout, str); perr == nil {
			attrs.InternalDate = t
			attrs.HasInternalDate = true
		}
		return nil

	case item == "RFC822.SIZE":
		n, err := s.dec.ReadNumber64()
		if err != nil {
			return err
		}
		attrs.RFC822Size = int64(n)
		attrs.HasRFC822Size = true
		return nil

	case item == "ENVELOPE":
		v, err := s.dec.ReadValue()
		if err != nil {
			return err
		}
		if !s.opts.ParseEnvelope {
			attrs.Raw["envelope"] = valueToInterface(v)
			return nil
		}
		attrs.Envelope = reshapeEnvelope(v, s.envelopeOpts())
		return nil

	case item == "BODYSTRUCTURE" || item == "BODY":
		// Bare "BODY" without brackets is a BODYSTRUCTURE synonym
		// lacking extension data (RFC 3501 §7.4.2).
		v, err := s.dec.ReadValue()
		if err != nil {
			return err
		}
		if !s.opts.ParseBodystructure {
			attrs.Raw["bodystructure"] = valueToInterface(v)
			return nil
		}
		attrs.BodyStructure = reshapeBodyStructure(v, "", s.envelopeOpts())
		return nil

	case strings.HasPrefix(item, "BODY["):
		return s.readBodySectionItem(item, attrs)

	default:
		v, err := s.dec.ReadValue()
		if err != nil {
			return err
		}
		attrs.Raw[item] = valueToInterface(v)
		return nil
	}
}

// readBodySectionItem handles "BODY[section]<partial>" and its
// "BODY[section]<partial> {n}\r\n<literal>" (or quoted-string, or NIL)
// payload.
func (s *Session) readBodySectionItem(item string, attrs *imapkit.MessageAttrs) error {
	spec := parseBodySectionItemName(item)
	data, err := readLiteralOrString(s.dec)
	if err != nil {
		return err
	}
	if attrs.BodySection == nil {
		attrs.BodySection = map[string]*imapkit.BodySectionResult{}
	}
	result := &imapkit.BodySectionResult{Spec: spec, Data: data}
	if spec != nil && (spec.Specifier == "HEADER" || spec.Specifier == "HEADER.FIELDS" || spec.Specifier == "HEADER.FIELDS.NOT") {
		result.Headers = splitHeaderFields(data)
	}
	attrs.BodySection[spec.String()] = result
	return nil
}

func readLiteralOrString(d *wire.Decoder) ([]byte, error) {
	b, err := d.PeekByte()
	if err != nil {
		return nil, err
	}
	switch b {
	case '{':
		info, err := d.ReadLiteralInfo()
		if err != nil {
			return nil, err
		}
		return d.ReadLiteral(info.Size)
	case '"':
		str, err := d.ReadQuotedString()
		return []byte(str), err
	default:
		// NIL: an absent section.
		for i := 0; i < 3; i++ {
			if _, err := d.ExpectAny(); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
}

// parseBodySectionItemName turns "BODY[1.2.TEXT]<0.10>" (or
// "BODY.PEEK[...]") into a BodySectionSpec.
func parseBodySectionItemName(item string) *imapkit.BodySectionSpec {
	peek := strings.HasPrefix(item, "BODY.PEEK")
	inner := item
	if peek {
		inner = strings.TrimPrefix(inner, "BODY.PEEK")
	} else {
		inner = strings.TrimPrefix(inner, "BODY")
	}

	spec := &imapkit.BodySectionSpec{Peek: peek}

	if idx := strings.IndexByte(inner, '<'); idx >= 0 {
		rangeStr := strings.TrimSuffix(inner[idx+1:], ">")
		inner = inner[:idx]
		if dot := strings.IndexByte(rangeStr, '.'); dot >= 0 {
			off, _ := strconv.ParseInt(rangeStr[:dot], 10, 64)
			n, _ := strconv.ParseInt(rangeStr[dot+1:], 10, 64)
			spec.Partial = &imapkit.SectionPartial{Offset: off, Count: n}
		}
	}
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")

	fieldsStart := strings.IndexByte(inner, '(')
	var fieldsPart string
	if fieldsStart >= 0 {
		fieldsPart = strings.TrimSuffix(inner[fieldsStart+1:], ")")
		inner = strings.TrimSpace(inner[:fieldsStart])
	}

	parts := strings.Split(inner, ".")
	var partNum []int
	i := 0
	for ; i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			break
		}
		partNum = append(partNum, n)
	}
	spec.Part = partNum
	if i < len(parts) {
		spec.Specifier = strings.Join(parts[i:], ".")
	}
	if fieldsPart != "" {
		spec.Fields = strings.Fields(fieldsPart)
	}
	return spec
}

func splitHeaderFields(data []byte) map[string][]string {
	out := map[string][]string{}
	lines := strings.Split(string(data), "\r\n")
	var curKey string
	for _, line := range lines {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && curKey != "" {
			out[curKey][len(out[curKey])-1] += "\r\n" + line
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		val := strings.TrimSpace(line[idx+1:])
		out[key] = append(out[key], val)
		curKey = key
	}
	return out
}

// envelopeReshapeOpts bundles the session's parse-mode flags relevant
// to ENVELOPE reshaping, so reshapeEnvelope/reshapeBodyStructure (free
// functions, for testability) don't need a *Session.
type envelopeReshapeOpts struct {
	hd                headerdecode.Decoder
	decodeHeaderWords bool
	includeRaw        bool
}

// envelopeOpts builds the current envelopeReshapeOpts from the
// session's configured HeaderDecoder and parse-mode flags.
func (s *Session) envelopeOpts() envelopeReshapeOpts {
	return envelopeReshapeOpts{
		hd:                s.headerDecoder,
		decodeHeaderWords: s.opts.DecodeHeaderWords,
		includeRaw:        s.opts.IncludeRawAddresses,
	}
}

// reshapeEnvelope walks the 10-element ENVELOPE list into an
// imapkit.Envelope, keeping the positional structure defined by RFC
// 3501 §7.4.2 explicit instead of inferring it from field names.
func reshapeEnvelope(v *wire.Value, opts envelopeReshapeOpts) *imapkit.Envelope {
	if v == nil || v.Kind != wire.KindList || len(v.List) < 10 {
		return nil
	}
	env := &imapkit.Envelope{
		From:      reshapeAddressList(v.List[2], false),
		Sender:    reshapeAddressList(v.List[3], false),
		ReplyTo:   reshapeAddressList(v.List[4], false),
		To:        reshapeAddressList(v.List[5], false),
		Cc:        reshapeAddressList(v.List[6], false),
		Bcc:       reshapeAddressList(v.List[7], false),
		InReplyTo: nilableStr(v.List[8]),
		MessageID: nilableStr(v.List[9]),
	}
	if opts.includeRaw {
		env.RawFrom = reshapeAddressList(v.List[2], true)
		env.RawSender = reshapeAddressList(v.List[3], true)
		env.RawReplyTo = reshapeAddressList(v.List[4], true)
		env.RawTo = reshapeAddressList(v.List[5], true)
		env.RawCc = reshapeAddressList(v.List[6], true)
		env.RawBcc = reshapeAddressList(v.List[7], true)
	}
	if v.List[0].Kind != wire.KindNil {
		if t, err := parseIMAPDateTime(v.List[0].Str()); err == nil {
			env.Date = t
		}
	}
	env.Subject = nilableStr(v.List[1])
	if opts.decodeHeaderWords && opts.hd != nil && env.Subject != "" {
		if decoded, err := opts.hd.DecodeHeader(env.Subject); err == nil {
			env.Subject = decoded
		}
	}
	return env
}

// reshapeAddressList reshapes a wire address list into the 4-tuple
// Address form. includeSourceRoute carries the source-route element
// (normally dropped, per RFC 3501's deprecation of source routing)
// through to Address.SourceRoute for the IncludeRawAddresses variant.
func reshapeAddressList(v *wire.Value, includeSourceRoute bool) []*imapkit.Address {
	if v == nil || v.Kind != wire.KindList {
		return nil
	}
	out := make([]*imapkit.Address, 0, len(v.List))
	for _, item := range v.List {
		if item.Kind != wire.KindList || len(item.List) < 4 {
			continue
		}
		addr := &imapkit.Address{
			Name:    nilableStr(item.List[0]),
			Mailbox: nilableStr(item.List[2]),
			Host:    nilableStr(item.List[3]),
		}
		if includeSourceRoute {
			addr.SourceRoute = nilableStr(item.List[1])
		}
		out = append(out, addr)
	}
	return out
}

func nilableStr(v *wire.Value) string {
	if v == nil || v.Kind == wire.KindNil {
		return ""
	}
	return v.Text
}

// parseIMAPDateTime parses an RFC 3501 date-time (ENVELOPE date or
// INTERNALDATE), tolerating the single-digit-day variant some servers
// send without the leading space padding normalized.
func parseIMAPDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(imapkit.InternalDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("Mon, 2 Jan 2006 15:04:05 -0700", s)
}

// reshapeBodyStructure recursively walks a BODYSTRUCTURE list into a
// *imapkit.BodyStructure tree, computing PartNum for each node as it
// descends (spec's "IMAP-Partnum" computed field). opts threads the
// session's parse-mode flags down to any embedded message/rfc822
// ENVELOPE.
func reshapeBodyStructure(v *wire.Value, partNum string, opts envelopeReshapeOpts) *imapkit.BodyStructure {
	if v == nil || v.Kind != wire.KindList {
		return nil
	}

	// A multipart body is a list of body-part lists followed by the
	// subtype atom (and optional extension data); a leaf part instead
	// starts with a type/subtype string pair.
	if len(v.List) > 0 && v.List[0].Kind == wire.KindList {
		bs := &imapkit.BodyStructure{PartNum: partNum, Type: "multipart"}
		next := 0
		for i, item := range v.List {
			if item.Kind != wire.KindList {
				next = i
				break
			}
			cn := strconv.Itoa(i + 1)
			if partNum != "" {
				cn = partNum + "." + cn
			}
			bs.Children = append(bs.Children, reshapeBodyStructure(item, cn, opts))
			next = i + 1
		}
		if next < len(v.List) {
			bs.Subtype = strings.ToLower(v.List[next].Str())
		}
		bs.MIMEType = bs.Type + "/" + bs.Subtype
		return bs
	}

	bs := &imapkit.BodyStructure{PartNum: partNum}
	get := func(i int) *wire.Value {
		if i < len(v.List) {
			return v.List[i]
		}
		return nil
	}
	bs.Type = strings.ToLower(get(0).Str())
	bs.Subtype = strings.ToLower(get(1).Str())
	bs.MIMEType = bs.Type + "/" + bs.Subtype
	bs.Params = reshapeParamList(get(2))
	bs.ID = nilableStr(get(3))
	bs.Description = nilableStr(get(4))
	bs.Encoding = strings.ToLower(nilableStr(get(5)))
	if n, err := strconv.ParseUint(get(6).Str(), 10, 32); err == nil {
		bs.Size = uint32(n)
	}

	next := 7
	switch {
	case bs.Type == "message" && bs.Subtype == "rfc822":
		bs.Envelope = reshapeEnvelope(get(7), opts)
		childPart := "1"
		if partNum != "" {
			childPart = partNum + ".1"
		}
		if body := get(8); body != nil && body.Kind == wire.KindList && len(body.List) > 0 && body.List[0].Kind == wire.KindList {
			// A multipart body adds no level of its own: its children
			// are numbered partNum.1, partNum.2, ... (RFC 3501 §6.4.5).
			childPart = partNum
		}
		bs.BodyStructure = reshapeBodyStructure(get(8), childPart, opts)
		if n, err := strconv.ParseUint(get(9).Str(), 10, 32); err == nil {
			bs.Lines = uint32(n)
		}
		next = 10
	case bs.Type == "text":
		if n, err := strconv.ParseUint(get(7).Str(), 10, 32); err == nil {
			bs.Lines = uint32(n)
		}
		next = 8
	}

	// Extension data, when present: MD5, disposition, language,
	// location, each optional and NIL-able (RFC 3501 §7.4.2).
	if md5 := get(next); md5 != nil {
		bs.MD5 = nilableStr(md5)
		next++
	}
	if disp := get(next); disp != nil {
		if disp.Kind == wire.KindList && len(disp.List) == 2 {
			bs.Disposition = strings.ToLower(disp.List[0].Str())
			bs.DispositionParams = reshapeParamList(disp.List[1])
		}
		next++
	}
	if lang := get(next); lang != nil {
		switch lang.Kind {
		case wire.KindList:
			for _, l := range lang.List {
				bs.Language = append(bs.Language, l.Str())
			}
		case wire.KindString, wire.KindAtom:
			bs.Language = []string{lang.Str()}
		}
		next++
	}
	if loc := get(next); loc != nil {
		bs.Location = nilableStr(loc)
	}

	return bs
}

func reshapeParamList(v *wire.Value) map[string]string {
	if v == nil || v.Kind != wire.KindList {
		return nil
	}
	out := map[string]string{}
	for i := 0; i+1 < len(v.List); i += 2 {
		out[strings.ToLower(v.List[i].Str())] = v.List[i+1].Str()
	}
	return out
}

func valueToInterface(v *wire.Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case wire.KindNil:
		return nil
	case wire.KindList:
		out := make([]interface{}, len(v.List))
		for i, item := range v.List {
			out[i] = valueToInterface(item)
		}
		return out
	default:
		return v.Text
	}
}
