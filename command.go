package imap

// Command verb names, grouped by the state spec invariant I4 requires
// for issuing them. The façade in package client enforces these groups
// locally through its state machine's RequireState, called from
// execCommand; the wire parser itself stays permissive, per spec §4.E.
const (
	// Any state.
	VerbCapability = "CAPABILITY"
	VerbNoop       = "NOOP"
	VerbLogout     = "LOGOUT"

	// Not-authenticated state.
	VerbStartTLS     = "STARTTLS"
	VerbAuthenticate = "AUTHENTICATE"
	VerbLogin        = "LOGIN"

	// Authenticated state.
	VerbSelect      = "SELECT"
	VerbExamine     = "EXAMINE"
	VerbCreate      = "CREATE"
	VerbDelete      = "DELETE"
	VerbRename      = "RENAME"
	VerbSubscribe   = "SUBSCRIBE"
	VerbUnsubscribe = "UNSUBSCRIBE"
	VerbList        = "LIST"
	VerbLsub        = "LSUB"
	VerbNamespace   = "NAMESPACE"
	VerbStatus      = "STATUS"
	VerbAppend      = "APPEND"

	// Selected state.
	VerbClose    = "CLOSE"
	VerbUnselect = "UNSELECT"
	VerbExpunge  = "EXPUNGE"
	VerbSearch   = "SEARCH"
	VerbFetch    = "FETCH"
	VerbStore    = "STORE"
	VerbCopy     = "COPY"
	VerbMove     = "MOVE"
	VerbSort     = "SORT"
	VerbThread   = "THREAD"
	VerbUID      = "UID"

	// Extension verbs. The client façade issues these without checking
	// the cached capability set first; a server that lacks the extension
	// answers with NO or BAD.
	VerbGetQuota     = "GETQUOTA"
	VerbGetQuotaRoot = "GETQUOTAROOT"
	VerbSetQuota     = "SETQUOTA"
	VerbSetACL       = "SETACL"
	VerbDeleteACL    = "DELETEACL"
	VerbGetACL       = "GETACL"
	VerbListRights   = "LISTRIGHTS"
	VerbMyRights     = "MYRIGHTS"
	VerbSetMetadata  = "SETMETADATA"
	VerbGetMetadata  = "GETMETADATA"
	VerbID           = "ID"
)
