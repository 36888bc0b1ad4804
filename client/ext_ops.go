package client

import (
	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/wire"
)

// Namespace issues NAMESPACE (RFC 2342).
func (s *Session) Namespace() (*imapkit.NamespaceData, error) {
	_, c, err := s.execCommand("NAMESPACE", nil, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.Namespace, nil
}

// SetACL issues SETACL (RFC 4314 §3.1), granting, revoking, or setting
// identifier's rights on mailbox depending on the leading "+"/"-" on
// rights (rights with no prefix replaces the set outright).
func (s *Session) SetACL(mailbox, identifier string, rights imapkit.ACLRights) error {
	_, _, err := s.execCommand("SETACL", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
		argString(identifier),
		argString(string(rights)),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// DeleteACL issues DELETEACL (RFC 4314 §3.2).
func (s *Session) DeleteACL(mailbox, identifier string) error {
	_, _, err := s.execCommand("DELETEACL", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
		argString(identifier),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// GetACL issues GETACL (RFC 4314 §3.3).
func (s *Session) GetACL(mailbox string) (*imapkit.ACLData, error) {
	_, c, err := s.execCommand("GETACL", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.ACL, nil
}

// ListRights issues LISTRIGHTS (RFC 4314 §3.4).
func (s *Session) ListRights(mailbox, identifier string) (*imapkit.ACLListRightsData, error) {
	_, c, err := s.execCommand("LISTRIGHTS", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
		argString(identifier),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.ListRights, nil
}

// MyRights issues MYRIGHTS (RFC 4314 §3.5).
func (s *Session) MyRights(mailbox string) (*imapkit.ACLMyRightsData, error) {
	_, c, err := s.execCommand("MYRIGHTS", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.MyRights, nil
}

// GetQuota issues GETQUOTA (RFC 2087 §4.1).
func (s *Session) GetQuota(root string) (*imapkit.QuotaData, error) {
	_, c, err := s.execCommand("GETQUOTA", []commandArg{
		argString(root),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if len(c.Quota) > 0 {
		return c.Quota[0], nil
	}
	return &imapkit.QuotaData{Root: root}, nil
}

// GetQuotaRoot issues GETQUOTAROOT (RFC 2087 §4.2), which returns both
// a QUOTAROOT response naming the roots and a QUOTA response per root.
func (s *Session) GetQuotaRoot(mailbox string) (*imapkit.QuotaRootData, []*imapkit.QuotaData, error) {
	_, c, err := s.execCommand("GETQUOTAROOT", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, nil, err
	}
	var qr *imapkit.QuotaRootData
	if len(c.QuotaRoot) > 0 {
		qr = c.QuotaRoot[0]
	}
	return qr, c.Quota, nil
}

// SetQuota issues SETQUOTA (RFC 2087 §4.3), setting resource limits on
// root. A zero-valued limits map clears all limits on the root.
func (s *Session) SetQuota(root string, limits map[imapkit.QuotaResource]int64) (*imapkit.QuotaData, error) {
	_, c, err := s.execCommand("SETQUOTA", []commandArg{
		argString(root),
		arg(func(e *wire.Encoder) { writeQuotaLimits(e, limits) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if len(c.Quota) > 0 {
		return c.Quota[0], nil
	}
	return nil, nil
}

func writeQuotaLimits(e *wire.Encoder, limits map[imapkit.QuotaResource]int64) {
	e.BeginList()
	i := 0
	for res, limit := range limits {
		if i > 0 {
			e.SP()
		}
		e.Atom(string(res)).SP().Number64(uint64(limit))
		i++
	}
	e.EndList()
}

// GetMetadata issues GETMETADATA (RFC 5464 §4.2) for the given entries
// under mailbox ("" addresses the server-level metadata root).
func (s *Session) GetMetadata(mailbox string, entries []string, opts *imapkit.MetadataOptions) (*imapkit.MetadataData, error) {
	args := []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
	}
	if opts != nil && (opts.Depth != 0 || opts.MaxSize != 0) {
		args = append(args, arg(func(e *wire.Encoder) { writeMetadataOptions(e, opts) }))
	}
	args = append(args, arg(func(e *wire.Encoder) { e.List(entries) }))

	_, c, err := s.execCommand("GETMETADATA", args, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if len(c.Metadata) > 0 {
		return c.Metadata[0], nil
	}
	return &imapkit.MetadataData{Mailbox: mailbox}, nil
}

func writeMetadataOptions(e *wire.Encoder, opts *imapkit.MetadataOptions) {
	e.BeginList()
	wrote := false
	if opts.Depth != 0 {
		e.Atom("DEPTH").SP()
		switch opts.Depth {
		case imapkit.MetadataDepthOne:
			e.Atom("1")
		case imapkit.MetadataDepthInfinity:
			e.Atom("infinity")
		default:
			e.Atom("0")
		}
		wrote = true
	}
	if opts.MaxSize != 0 {
		if wrote {
			e.SP()
		}
		e.Atom("MAXSIZE").SP().Number64(uint64(opts.MaxSize))
	}
	e.EndList()
}

// SetMetadata issues SETMETADATA (RFC 5464 §4.3). A nil value in
// entries clears that entry.
func (s *Session) SetMetadata(mailbox string, entries map[string][]byte) error {
	_, _, err := s.execCommand("SETMETADATA", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
		arg(func(e *wire.Encoder) { writeMetadataEntries(e, entries) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

func writeMetadataEntries(e *wire.Encoder, entries map[string][]byte) {
	e.BeginList()
	i := 0
	for entry, val := range entries {
		if i > 0 {
			e.SP()
		}
		e.AString(entry).SP()
		if val == nil {
			e.Nil()
		} else {
			e.String(string(val))
		}
		i++
	}
	e.EndList()
}

// ID issues ID (RFC 2971 §3.1), sending fields and returning the
// server's own ID response.
func (s *Session) ID(fields imapkit.IDData) (imapkit.IDData, error) {
	_, c, err := s.execCommand("ID", []commandArg{
		arg(func(e *wire.Encoder) { writeIDFields(e, fields) }),
	})
	if err != nil {
		return nil, err
	}
	return c.ID, nil
}

func writeIDFields(e *wire.Encoder, fields imapkit.IDData) {
	if len(fields) == 0 {
		e.Nil()
		return
	}
	e.BeginList()
	i := 0
	for k, v := range fields {
		if i > 0 {
			e.SP()
		}
		e.String(k).SP().String(v)
		i++
	}
	e.EndList()
}
