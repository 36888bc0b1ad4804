package client

import (
	"crypto/tls"

	"golang.org/x/text/secure/precis"

	imapkit "github.com/imapkit/imapkit"
	"github.com/imapkit/imapkit/wire"
)

// Login authenticates with a plaintext username/password via the LOGIN
// command. It is refused (spec requires callers to check) when the
// server advertises LOGINDISABLED; Authenticate should be used with a
// SASL mechanism instead in that case.
//
// The password is SASLprep-normalized (RFC 4013's OpaqueString profile)
// before being sent, matching what servers assume a conforming client
// does for any credential exchange. A password that fails the profile
// (bidirectional text, unassigned code points) is sent unmodified.
func (s *Session) Login(username, password string) error {
	if s.capabilities != nil && s.capabilities.Has(imapkit.CapLoginDisabled) {
		return imapkit.NewStateError("LOGIN is disabled by the server; use Authenticate")
	}
	if prepped, err := precis.OpaqueString.String(password); err == nil {
		password = prepped
	}
	_, _, err := s.execCommand("LOGIN", []commandArg{
		argString(username),
		argString(password),
	}, imapkit.StateConnected)
	if err != nil {
		return err
	}
	return s.state.Transition(imapkit.StateAuthenticated)
}

// StartTLS issues STARTTLS and, on success, wraps the connection in
// TLS using cfg (or the Session's configured TLSConfig if cfg is nil).
// The capability cache is invalidated, matching the RFC 3501 §6.2.1
// requirement that a post-STARTTLS CAPABILITY be reissued.
func (s *Session) StartTLS(cfg *tls.Config) error {
	if err := s.checkReleased(); err != nil {
		return err
	}
	if _, _, err := s.execCommand("STARTTLS", nil, imapkit.StateConnected); err != nil {
		return err
	}
	if cfg == nil {
		cfg = s.opts.TLSConfig
	}
	tlsConn := tls.Client(s.conn, cfg)
	if err := tlsConn.Handshake(); err != nil {
		return err
	}
	s.conn = tlsConn
	s.stream = wire.NewStream(tlsConn, s.opts.ReadTimeout, s.opts.WriteTimeout)
	if s.opts.Trace != nil {
		s.stream.SetTrace(s.opts.Trace)
	}
	s.dec = wire.NewDecoder(s.stream)
	s.enc = wire.NewEncoder(s.stream)
	s.capabilities = nil
	return nil
}

// Capability issues CAPABILITY and returns the refreshed set, which is
// also cached on the Session for Capabilities().
func (s *Session) Capability() (*imapkit.CapabilitySet, error) {
	_, _, err := s.execCommand("CAPABILITY", nil)
	if err != nil {
		return nil, err
	}
	return s.capabilities, nil
}

// Noop issues NOOP, a no-op whose only purpose is to let the server
// deliver unsolicited untagged data (spec §4.E's "batched STATUS"
// exception aside, this is the one command callers issue purely to
// observe a Session's UnilateralDataHandler fire).
func (s *Session) Noop() error {
	_, _, err := s.execCommand("NOOP", nil)
	return err
}

// Logout issues LOGOUT and closes the connection.
func (s *Session) Logout() error {
	_, c, err := s.execCommand("LOGOUT", nil)
	if err != nil && c != nil && c.Bye != "" {
		// BYE is the server's normal answer to LOGOUT, not a failure.
		err = nil
	}
	_ = s.state.Transition(imapkit.StateUnconnected)
	closeErr := s.conn.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// Select opens mailbox for read-write access (or read-only, with
// opts.ReadOnly, via EXAMINE), populating the returned SelectData from
// the FLAGS/EXISTS/RECENT untagged responses and the
// UNSEEN/UIDVALIDITY/UIDNEXT/PERMANENTFLAGS response codes the server
// sends as part of the command (spec invariant I6).
func (s *Session) Select(mailbox string, opts *imapkit.SelectOptions) (*imapkit.SelectData, error) {
	verb := "SELECT"
	readOnly := opts != nil && opts.ReadOnly
	if readOnly {
		verb = "EXAMINE"
	}
	s.resetSelectCache()
	server := s.folder.ToServer(mailbox)
	resp, c, err := s.execCommand(verb, []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(server) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if err := s.state.Transition(imapkit.StateSelected); err != nil {
		return nil, err
	}
	name := mailbox
	s.selected = &name

	sd := &imapkit.SelectData{ReadOnly: readOnly || resp.Code == imapkit.CodeReadOnly}
	if c.Exists != nil {
		sd.NumMessages = *c.Exists
	}
	if c.Recent != nil {
		sd.NumRecent = *c.Recent
	}
	if s.uidNextCache != nil {
		sd.UIDNext = imapkit.UID(*s.uidNextCache)
	}
	if s.uidValidityCache != nil {
		sd.UIDValidity = *s.uidValidityCache
	}
	if s.unseenCache != nil {
		sd.FirstUnseen = *s.unseenCache
	}
	sd.PermanentFlags = s.permanentFlagsCache
	if sd.PermanentFlags == nil {
		// Without a PERMANENTFLAGS code every flag listed in FLAGS can
		// be changed permanently (RFC 3501 §7.1).
		sd.PermanentFlags = c.Flags
	}
	return sd, nil
}

func (s *Session) resetSelectCache() {
	s.existsCache = nil
	s.recentCache = nil
	s.uidNextCache = nil
	s.uidValidityCache = nil
	s.unseenCache = nil
	s.permanentFlagsCache = nil
}

// CloseMailbox issues CLOSE, which silently expunges \Deleted messages and
// returns to the authenticated state.
func (s *Session) CloseMailbox() error {
	_, _, err := s.execCommand("CLOSE", nil, imapkit.StateSelected)
	if err != nil {
		return err
	}
	s.selected = nil
	return s.state.Transition(imapkit.StateAuthenticated)
}

// Unselect issues UNSELECT (RFC 3691), like CloseMailbox but without the
// implicit expunge.
func (s *Session) Unselect() error {
	if s.capabilities != nil && !s.capabilities.Has(imapkit.CapUnselect) {
		return imapkit.NewStateError("server does not advertise UNSELECT")
	}
	_, _, err := s.execCommand("UNSELECT", nil, imapkit.StateSelected)
	if err != nil {
		return err
	}
	s.selected = nil
	return s.state.Transition(imapkit.StateAuthenticated)
}

// Create issues CREATE for a new mailbox.
func (s *Session) Create(mailbox string, opts *imapkit.CreateOptions) error {
	server := s.folder.ToServer(mailbox)
	args := []commandArg{arg(func(e *wire.Encoder) { e.MailboxName(server) })}
	if opts != nil && opts.SpecialUse != "" {
		args = append(args, arg(func(e *wire.Encoder) {
			e.RawString("USE ").List([]string{string(opts.SpecialUse)})
		}))
	}
	_, _, err := s.execCommand("CREATE", args, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// Delete issues DELETE for an existing mailbox.
func (s *Session) Delete(mailbox string) error {
	server := s.folder.ToServer(mailbox)
	_, _, err := s.execCommand("DELETE", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(server) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// Rename issues RENAME.
func (s *Session) Rename(mailbox, newName string) error {
	from := s.folder.ToServer(mailbox)
	to := s.folder.ToServer(newName)
	_, _, err := s.execCommand("RENAME", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(from) }),
		arg(func(e *wire.Encoder) { e.MailboxName(to) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// Subscribe issues SUBSCRIBE.
func (s *Session) Subscribe(mailbox string) error {
	server := s.folder.ToServer(mailbox)
	_, _, err := s.execCommand("SUBSCRIBE", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(server) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// Unsubscribe issues UNSUBSCRIBE.
func (s *Session) Unsubscribe(mailbox string) error {
	server := s.folder.ToServer(mailbox)
	_, _, err := s.execCommand("UNSUBSCRIBE", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(server) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	return err
}

// List issues LIST (or, with opts.SubscribedOnly, LSUB) and returns
// every matching mailbox with server-side names rewritten to local
// names (spec §4.F).
func (s *Session) List(reference, pattern string, opts *imapkit.ListOptions) ([]*imapkit.ListData, error) {
	verb := "LIST"
	if opts != nil && opts.SubscribedOnly {
		verb = "LSUB"
	}
	_, c, err := s.execCommand(verb, []commandArg{
		argString(s.folder.ToServer(reference)),
		argString(pattern),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	return c.List, nil
}

// Status issues STATUS for a single mailbox.
func (s *Session) Status(mailbox string, opts *imapkit.StatusOptions) (*imapkit.StatusData, error) {
	_, c, err := s.execCommand("STATUS", []commandArg{
		arg(func(e *wire.Encoder) { e.MailboxName(s.folder.ToServer(mailbox)) }),
		arg(func(e *wire.Encoder) { e.List(statusItemNames(opts)) }),
	}, imapkit.StateAuthenticated, imapkit.StateSelected)
	if err != nil {
		return nil, err
	}
	if len(c.Status) > 0 {
		return c.Status[0], nil
	}
	return &imapkit.StatusData{Mailbox: mailbox}, nil
}

// StatusMany runs one STATUS command per mailbox as a single
// synchronous call. The commands are not pipelined: each is sent only
// after the previous one's tagged completion has been read, so the
// one-command-in-flight rule holds throughout. A failure for one
// mailbox is collected in the returned errors and the batch goes on.
func (s *Session) StatusMany(mailboxes []string, opts *imapkit.StatusOptions) (map[string]*imapkit.StatusData, []error) {
	out := make(map[string]*imapkit.StatusData, len(mailboxes))
	var errs []error
	for _, mb := range mailboxes {
		sd, err := s.Status(mb, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[mb] = sd
	}
	return out, errs
}

func statusItemNames(opts *imapkit.StatusOptions) []string {
	if opts == nil {
		return []string{"MESSAGES", "UIDNEXT", "UIDVALIDITY", "UNSEEN"}
	}
	var items []string
	if opts.NumMessages {
		items = append(items, "MESSAGES")
	}
	if opts.UIDNext {
		items = append(items, "UIDNEXT")
	}
	if opts.UIDValidity {
		items = append(items, "UIDVALIDITY")
	}
	if opts.NumUnseen {
		items = append(items, "UNSEEN")
	}
	if opts.NumRecent {
		items = append(items, "RECENT")
	}
	if len(items) == 0 {
		items = []string{"MESSAGES", "UIDNEXT", "UIDVALIDITY", "UNSEEN"}
	}
	return items
}
