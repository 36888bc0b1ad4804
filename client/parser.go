package client

import (
	"errors"
	"io"
	"strconv"
	"strings"

	imapkit "github.com/imapkit/imapkit"
)

// collected accumulates every untagged response observed while a
// single command was in flight (component C). A Session has exactly
// one of these live at a time, matching the single-command-in-flight
// model: there is no per-tag demultiplexing because there is never
// more than one tag outstanding.
type collected struct {
	Capabilities []string

	List   []*imapkit.ListData
	Status []*imapkit.StatusData

	Search    []uint32
	SearchRaw string

	Sort   []uint32
	Thread []*imapkit.Thread

	Fetch imapkit.FetchResult

	Namespace  *imapkit.NamespaceData
	ACL        *imapkit.ACLData
	ListRights *imapkit.ACLListRightsData
	MyRights   *imapkit.ACLMyRightsData

	Quota     []*imapkit.QuotaData
	QuotaRoot []*imapkit.QuotaRootData

	Metadata []*imapkit.MetadataData

	ID imapkit.IDData

	Flags []imapkit.Flag

	StatusType imapkit.StatusResponseType

	Exists  *uint32
	Recent  *uint32
	Expunge []uint32

	Bye string
}

// readUntaggedLine parses one "* ..." response line into c. It is also
// where EXISTS/EXPUNGE/RECENT/FETCH data reaches the session's
// UnilateralDataHandler: each such line is accumulated into c and, when
// a handler is configured, passed to it as well, whether or not the
// command in flight asked for it.
func (s *Session) readUntaggedLine(c *collected) error {
	if err := s.dec.ExpectByte('*'); err != nil {
		return err
	}
	if err := s.dec.ReadSP(); err != nil {
		return err
	}

	b, err := s.dec.PeekByte()
	if err != nil {
		return err
	}

	if b >= '0' && b <= '9' {
		return s.readUntaggedNumeric(c)
	}
	return s.readUntaggedKeyword(c)
}

func (s *Session) readUntaggedNumeric(c *collected) error {
	num, err := s.dec.ReadNumber()
	if err != nil {
		return err
	}
	if err := s.dec.ReadSP(); err != nil {
		return err
	}
	verb, err := s.dec.ReadAtom()
	if err != nil {
		return err
	}
	switch strings.ToUpper(verb) {
	case "EXISTS":
		n := num
		c.Exists = &n
		s.existsCache = &n
		if s.opts.UnilateralDataHandler != nil && s.opts.UnilateralDataHandler.Exists != nil {
			s.opts.UnilateralDataHandler.Exists(n)
		}
	case "RECENT":
		n := num
		c.Recent = &n
		s.recentCache = &n
		if s.opts.UnilateralDataHandler != nil && s.opts.UnilateralDataHandler.Recent != nil {
			s.opts.UnilateralDataHandler.Recent(n)
		}
	case "EXPUNGE":
		c.Expunge = append(c.Expunge, num)
		if s.selected != nil && s.existsCache != nil && *s.existsCache > 0 {
			n := *s.existsCache - 1
			s.existsCache = &n
		}
		if s.opts.UnilateralDataHandler != nil && s.opts.UnilateralDataHandler.Expunge != nil {
			s.opts.UnilateralDataHandler.Expunge(num)
		}
	case "FETCH":
		attrs, err := s.readFetchAttrs(num)
		if err != nil {
			return err
		}
		key := num
		if s.uidInFlight && attrs.HasUID {
			key = uint32(attrs.UID)
			attrs.Num = key
		}
		if c.Fetch == nil {
			c.Fetch = imapkit.FetchResult{}
		}
		c.Fetch[key] = attrs
		if s.opts.UnilateralDataHandler != nil && s.opts.UnilateralDataHandler.Fetch != nil {
			s.opts.UnilateralDataHandler.Fetch(key, attrs)
		}
	default:
		return s.dec.DiscardLine()
	}
	return s.dec.ReadCRLF()
}

func (s *Session) readUntaggedKeyword(c *collected) error {
	verb, err := s.dec.ReadAtom()
	if err != nil {
		return err
	}
	switch strings.ToUpper(verb) {
	case "OK", "NO", "BAD", "PREAUTH", "BYE":
		code, text, err := s.readStatusRest()
		if err != nil {
			return err
		}
		s.cacheResponseCode(code, text)
		c.StatusType = imapkit.StatusResponseType(strings.ToUpper(verb))
		if strings.ToUpper(verb) == "BYE" {
			c.Bye = text
		}
		return nil

	case "CAPABILITY":
		var caps []string
		for {
			b, err := s.dec.PeekByte()
			if err != nil {
				return err
			}
			if b == '\r' || b == '\n' {
				break
			}
			if err := s.dec.ReadSP(); err != nil {
				return err
			}
			a, err := s.dec.ReadAtom()
			if err != nil {
				return err
			}
			caps = append(caps, a)
		}
		c.Capabilities = caps
		s.capabilities = imapkit.NewCapabilitySet(caps)
		return s.dec.ReadCRLF()

	case "FLAGS":
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		raw, err := s.dec.ReadFlags()
		if err != nil {
			return err
		}
		c.Flags = flagsFromStrings(raw)
		return s.dec.ReadCRLF()

	case "LIST", "LSUB":
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		ld, err := s.readListData()
		if err != nil {
			return err
		}
		c.List = append(c.List, ld)
		return s.dec.ReadCRLF()

	case "STATUS":
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		sd, err := s.readStatusData()
		if err != nil {
			return err
		}
		c.Status = append(c.Status, sd)
		return s.dec.ReadCRLF()

	case "SEARCH":
		nums, raw, err := s.readNumberLine()
		if err != nil {
			return err
		}
		c.Search = nums
		c.SearchRaw = raw
		return nil

	case "SORT":
		nums, _, err := s.readNumberLine()
		if err != nil {
			return err
		}
		c.Sort = nums
		return nil

	case "THREAD":
		threads, err := s.readThreadLine()
		if err != nil {
			return err
		}
		c.Thread = threads
		return nil

	case "NAMESPACE":
		ns, err := s.readNamespaceData()
		if err != nil {
			return err
		}
		c.Namespace = ns
		return s.dec.ReadCRLF()

	case "ACL":
		acl, err := s.readACLData()
		if err != nil {
			return err
		}
		c.ACL = acl
		return s.dec.ReadCRLF()

	case "LISTRIGHTS":
		lr, err := s.readListRightsData()
		if err != nil {
			return err
		}
		c.ListRights = lr
		return s.dec.ReadCRLF()

	case "MYRIGHTS":
		mr, err := s.readMyRightsData()
		if err != nil {
			return err
		}
		c.MyRights = mr
		return s.dec.ReadCRLF()

	case "QUOTA":
		q, err := s.readQuotaData()
		if err != nil {
			return err
		}
		c.Quota = append(c.Quota, q)
		return s.dec.ReadCRLF()

	case "QUOTAROOT":
		qr, err := s.readQuotaRootData()
		if err != nil {
			return err
		}
		c.QuotaRoot = append(c.QuotaRoot, qr)
		return s.dec.ReadCRLF()

	case "METADATA", "ANNOTATION":
		md, err := s.readMetadataData()
		if err != nil {
			return err
		}
		c.Metadata = append(c.Metadata, md)
		return s.dec.ReadCRLF()

	case "ID":
		id, err := s.readIDData()
		if err != nil {
			return err
		}
		c.ID = id
		return s.dec.ReadCRLF()

	default:
		return s.dec.DiscardLine()
	}
}

// readStatusRest parses "[CODE ...] free text\r\n" after an OK/NO/BAD/
// PREAUTH/BYE keyword (and after the tag, for tagged lines).
func (s *Session) readStatusRest() (code, text string, err error) {
	b, err := s.dec.PeekByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", "", nil
		}
		return "", "", err
	}
	if b == ' ' {
		if err := s.dec.ReadSP(); err != nil {
			return "", "", err
		}
	} else {
		return "", "", s.dec.ReadCRLF()
	}

	b, err = s.dec.PeekByte()
	if err != nil {
		return "", "", err
	}
	if b == '[' {
		if err := s.dec.ExpectByte('['); err != nil {
			return "", "", err
		}
		var sb strings.Builder
		for {
			ch, err := s.dec.ExpectAny()
			if err != nil {
				return "", "", err
			}
			if ch == ']' {
				break
			}
			sb.WriteByte(ch)
		}
		code = sb.String()
		b, err = s.dec.PeekByte()
		if err == nil && b == ' ' {
			_ = s.dec.ReadSP()
		}
	}

	rest, err := s.readToCRLF()
	if err != nil {
		return "", "", err
	}
	return code, rest, nil
}

// readToCRLF reads free-form text through the terminating CRLF.
func (s *Session) readToCRLF() (string, error) {
	var sb strings.Builder
	for {
		ch, err := s.dec.ExpectAny()
		if err != nil {
			return "", err
		}
		if ch == '\r' {
			nx, err := s.dec.ExpectAny()
			if err != nil {
				return "", err
			}
			if nx == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(ch)
			sb.WriteByte(nx)
			continue
		}
		if ch == '\n' {
			return sb.String(), nil
		}
		sb.WriteByte(ch)
	}
}

// cacheResponseCode stores a response code's value verbatim, keyed by
// its name, in the session's per-connection cache (spec §3).
func (s *Session) cacheResponseCode(code, text string) {
	if code == "" {
		return
	}
	name := code
	value := ""
	if i := strings.IndexByte(code, ' '); i >= 0 {
		name = code[:i]
		value = code[i+1:]
	}
	s.codeCache[strings.ToUpper(name)] = value
	switch strings.ToUpper(name) {
	case "UIDNEXT":
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			v := uint32(n)
			s.uidNextCache = &v
		}
	case "UIDVALIDITY":
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			v := uint32(n)
			s.uidValidityCache = &v
		}
	case "UNSEEN":
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			v := uint32(n)
			s.unseenCache = &v
		}
	case "PERMANENTFLAGS":
		s.permanentFlagsCache = flagsFromStrings(splitParenList(value))
	case "CAPABILITY":
		s.capabilities = imapkit.NewCapabilitySet(strings.Fields(value))
	}
	_ = text
}

func splitParenList(s string) []string {
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func flagsFromStrings(raw []string) []imapkit.Flag {
	out := make([]imapkit.Flag, len(raw))
	for i, r := range raw {
		out[i] = imapkit.Flag(r)
	}
	return out
}

// readNumberLine reads a space-separated run of decimal numbers through
// CRLF, used by SEARCH/SORT. raw preserves the full text for callers
// that need to detect ESEARCH-style tagged extensions (not modeled
// further here).
func (s *Session) readNumberLine() ([]uint32, string, error) {
	var nums []uint32
	var sb strings.Builder
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, "", err
		}
		if b == '\r' || b == '\n' {
			break
		}
		if b == ' ' {
			_ = s.dec.ReadSP()
			sb.WriteByte(' ')
			continue
		}
		n, err := s.dec.ReadNumber()
		if err != nil {
			return nil, "", err
		}
		nums = append(nums, n)
		sb.WriteString(strconv.FormatUint(uint64(n), 10))
	}
	if err := s.dec.ReadCRLF(); err != nil {
		return nil, "", err
	}
	return nums, sb.String(), nil
}
