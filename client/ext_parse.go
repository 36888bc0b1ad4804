package client

import (
	"strconv"
	"strings"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/wire"
)

// readListData parses the body of an untagged LIST/LSUB response,
// after "LIST "/"LSUB " has been consumed: "(attrs) sep mailbox".
func (s *Session) readListData() (*imapkit.ListData, error) {
	rawAttrs, err := s.dec.ReadFlags()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	sepStr, ok, err := s.dec.ReadNString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	name, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}

	attrs := make([]imapkit.MailboxAttr, len(rawAttrs))
	for i, a := range rawAttrs {
		attrs[i] = imapkit.MailboxAttr(a)
	}
	delim := rune(0)
	if ok && sepStr != "" {
		delim = rune(sepStr[0])
	}
	return &imapkit.ListData{
		Attrs:   attrs,
		Delim:   delim,
		Mailbox: s.folder.ToLocal(name),
	}, nil
}

// readStatusData parses "mailbox (item value ...)" after "STATUS " has
// been consumed.
func (s *Session) readStatusData() (*imapkit.StatusData, error) {
	name, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	sd := &imapkit.StatusData{Mailbox: s.folder.ToLocal(name)}
	err = s.dec.ReadList(func(i int) error {
		item, err := s.dec.ReadAtom()
		if err != nil {
			return err
		}
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		n, err := s.dec.ReadNumber()
		if err != nil {
			return err
		}
		v := n
		switch strings.ToUpper(item) {
		case "MESSAGES":
			sd.NumMessages = &v
		case "UIDNEXT":
			sd.UIDNext = &v
		case "UIDVALIDITY":
			sd.UIDValidity = &v
		case "UNSEEN":
			sd.NumUnseen = &v
		case "RECENT":
			sd.NumRecent = &v
		}
		return nil
	})
	return sd, err
}

// readThreadLine parses an untagged THREAD response: a sequence of
// parenthesized thread trees, using the generic Value reader since
// thread trees nest arbitrarily (RFC 5256 §4).
func (s *Session) readThreadLine() ([]*imapkit.Thread, error) {
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	var threads []*imapkit.Thread
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		v, err := s.dec.ReadValue()
		if err != nil {
			return nil, err
		}
		threads = append(threads, reshapeThread(v))
		b, err = s.dec.PeekByte()
		if err == nil && b == ' ' {
			_ = s.dec.ReadSP()
		}
	}
	return threads, s.dec.ReadCRLF()
}

func reshapeThread(v *wire.Value) *imapkit.Thread {
	if v == nil || v.Kind != wire.KindList {
		return nil
	}
	if len(v.List) == 0 {
		return nil
	}
	root := &imapkit.Thread{}
	i := 0
	if v.List[0].Kind != wire.KindList {
		n, err := strconv.ParseUint(v.List[0].Str(), 10, 32)
		if err == nil {
			root.Num = uint32(n)
		}
		i = 1
	}
	for ; i < len(v.List); i++ {
		child := reshapeThread(v.List[i])
		if child != nil {
			root.Children = append(root.Children, child)
		}
	}
	return root
}

// readNamespaceData parses the three namespace lists after "NAMESPACE "
// has been consumed (RFC 2342 §5): personal, other-users, shared, each
// either NIL or a list of (prefix delim) pairs.
func (s *Session) readNamespaceData() (*imapkit.NamespaceData, error) {
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	personal, err := s.readNamespaceGroup()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	other, err := s.readNamespaceGroup()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	shared, err := s.readNamespaceGroup()
	if err != nil {
		return nil, err
	}
	return &imapkit.NamespaceData{Personal: personal, Other: other, Shared: shared}, nil
}

func (s *Session) readNamespaceGroup() ([]imapkit.NamespaceDescriptor, error) {
	b, err := s.dec.PeekByte()
	if err != nil {
		return nil, err
	}
	if b != '(' {
		_, _, err := s.dec.ReadNString() // consume NIL
		return nil, err
	}
	var descs []imapkit.NamespaceDescriptor
	err = s.dec.ReadList(func(i int) error {
		var d imapkit.NamespaceDescriptor
		derr := s.dec.ReadList(func(j int) error {
			switch j {
			case 0:
				prefix, err := s.dec.ReadAString()
				if err != nil {
					return err
				}
				d.Prefix = prefix
			case 1:
				sep, ok, err := s.dec.ReadNString()
				if err != nil {
					return err
				}
				if ok && sep != "" {
					d.Delim = rune(sep[0])
					d.HasDelim = true
				}
			default:
				_, err := s.dec.ReadValue()
				return err
			}
			return nil
		})
		if derr != nil {
			return derr
		}
		descs = append(descs, d)
		return nil
	})
	return descs, err
}

// readACLData parses "mailbox (identifier rights identifier rights...)"
// after "ACL " has been consumed (RFC 4314 §3.6).
func (s *Session) readACLData() (*imapkit.ACLData, error) {
	name, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	acl := &imapkit.ACLData{Mailbox: s.folder.ToLocal(name), Rights: map[string]imapkit.ACLRights{}}
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		if err := s.dec.ReadSP(); err != nil {
			return nil, err
		}
		id, err := s.dec.ReadAString()
		if err != nil {
			return nil, err
		}
		if err := s.dec.ReadSP(); err != nil {
			return nil, err
		}
		rights, err := s.dec.ReadAString()
		if err != nil {
			return nil, err
		}
		acl.Rights[id] = imapkit.ACLRights(rights)
	}
	return acl, nil
}

func (s *Session) readListRightsData() (*imapkit.ACLListRightsData, error) {
	mailbox, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	identifier, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	required, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	lr := &imapkit.ACLListRightsData{
		Mailbox:    s.folder.ToLocal(mailbox),
		Identifier: identifier,
		Required:   imapkit.ACLRights(required),
	}
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		if err := s.dec.ReadSP(); err != nil {
			return nil, err
		}
		opt, err := s.dec.ReadAString()
		if err != nil {
			return nil, err
		}
		lr.Optional = append(lr.Optional, imapkit.ACLRights(opt))
	}
	return lr, nil
}

func (s *Session) readMyRightsData() (*imapkit.ACLMyRightsData, error) {
	mailbox, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	rights, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	return &imapkit.ACLMyRightsData{Mailbox: s.folder.ToLocal(mailbox), Rights: imapkit.ACLRights(rights)}, nil
}

// readQuotaData parses "root (resource usage limit ...)" after "QUOTA "
// has been consumed (RFC 2087 §5.1).
func (s *Session) readQuotaData() (*imapkit.QuotaData, error) {
	root, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	qd := &imapkit.QuotaData{Root: root}
	err = s.dec.ReadList(func(i int) error {
		resource, err := s.dec.ReadAtom()
		if err != nil {
			return err
		}
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		usage, err := s.dec.ReadNumber64()
		if err != nil {
			return err
		}
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		limit, err := s.dec.ReadNumber64()
		if err != nil {
			return err
		}
		qd.Resources = append(qd.Resources, imapkit.QuotaResourceData{
			Resource: imapkit.QuotaResource(strings.ToUpper(resource)),
			Usage:    int64(usage),
			Limit:    int64(limit),
		})
		return nil
	})
	return qd, err
}

func (s *Session) readQuotaRootData() (*imapkit.QuotaRootData, error) {
	mailbox, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	qr := &imapkit.QuotaRootData{Mailbox: s.folder.ToLocal(mailbox)}
	for {
		b, err := s.dec.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		if err := s.dec.ReadSP(); err != nil {
			return nil, err
		}
		root, err := s.dec.ReadAString()
		if err != nil {
			return nil, err
		}
		qr.Roots = append(qr.Roots, root)
	}
	return qr, nil
}

// readMetadataData parses "mailbox (entry value ...)" or "mailbox
// entry" after "METADATA " has been consumed (RFC 5464 §4.4.1).
func (s *Session) readMetadataData() (*imapkit.MetadataData, error) {
	mailbox, err := s.dec.ReadAString()
	if err != nil {
		return nil, err
	}
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	md := &imapkit.MetadataData{Mailbox: s.folder.ToLocal(mailbox)}

	b, err := s.dec.PeekByte()
	if err != nil {
		return nil, err
	}
	if b != '(' {
		entry, err := s.dec.ReadAString()
		if err != nil {
			return nil, err
		}
		md.Entries = append(md.Entries, imapkit.MetadataEntry{Entry: entry, IsNil: true})
		return md, nil
	}

	err = s.dec.ReadList(func(i int) error {
		entry, err := s.dec.ReadAString()
		if err != nil {
			return err
		}
		if err := s.dec.ReadSP(); err != nil {
			return err
		}
		val, ok, err := s.dec.ReadNString()
		if err != nil {
			return err
		}
		md.Entries = append(md.Entries, imapkit.MetadataEntry{
			Entry: entry,
			Value: []byte(val),
			IsNil: !ok,
		})
		return nil
	})
	return md, err
}

// readIDData parses the "(name value name value ...)" list, or NIL,
// after "ID " has been consumed (RFC 2971 §3.3).
func (s *Session) readIDData() (imapkit.IDData, error) {
	if err := s.dec.ReadSP(); err != nil {
		return nil, err
	}
	b, err := s.dec.PeekByte()
	if err != nil {
		return nil, err
	}
	if b != '(' {
		_, _, err := s.dec.ReadNString()
		return nil, err
	}
	id := imapkit.IDData{}
	var key string
	i := 0
	err = s.dec.ReadList(func(j int) error {
		val, ok, err := s.dec.ReadNString()
		if err != nil {
			return err
		}
		if i%2 == 0 {
			key = val
		} else if ok {
			id[strings.ToLower(key)] = val
		}
		i++
		return nil
	})
	return id, err
}
