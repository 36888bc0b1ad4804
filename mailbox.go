package imap

// SelectOptions configures the SELECT/EXAMINE command.
type SelectOptions struct {
	// ReadOnly issues EXAMINE instead of SELECT.
	ReadOnly bool
}

// SelectData is the side-channel data a successful SELECT/EXAMINE
// populates in the session's response-code cache (spec invariant I6).
type SelectData struct {
	NumMessages    uint32
	NumRecent      uint32
	UIDNext        UID
	UIDValidity    uint32
	FirstUnseen    uint32
	PermanentFlags []Flag
	ReadOnly       bool
}

// ListOptions configures the LIST command. Only the reference/pattern
// pair and subscribed-only filtering from RFC 3501 §6.3.8/§6.3.9 are in
// scope; LIST-EXTENDED return options are not implemented here.
type ListOptions struct {
	// SubscribedOnly issues LSUB instead of LIST.
	SubscribedOnly bool
}

// ListData is one mailbox entry from a LIST/LSUB response, after folder
// rewriting (spec §4.F) has stripped the root-folder prefix.
type ListData struct {
	Attrs   []MailboxAttr
	Delim   rune
	Mailbox string
}

// StatusOptions selects which STATUS items to request. A zero value
// requests the RFC 3501 default set (MESSAGES, UIDNEXT, UIDVALIDITY,
// UNSEEN).
type StatusOptions struct {
	NumMessages bool
	UIDNext     bool
	UIDValidity bool
	NumUnseen   bool
	NumRecent   bool
}

// StatusData is the reshaped STATUS response for one mailbox.
type StatusData struct {
	Mailbox     string
	NumMessages *uint32
	UIDNext     *uint32
	UIDValidity *uint32
	NumUnseen   *uint32
	NumRecent   *uint32
}
