package imap

// ACLRight is a single access-control right (RFC 4314 §2).
type ACLRight byte

const (
	ACLRightLookup   ACLRight = 'l'
	ACLRightRead     ACLRight = 'r'
	ACLRightSeen     ACLRight = 's'
	ACLRightWrite    ACLRight = 'w'
	ACLRightInsert   ACLRight = 'i'
	ACLRightPost     ACLRight = 'p'
	ACLRightCreate   ACLRight = 'k'
	ACLRightDelete   ACLRight = 'x'
	ACLRightDeleteMsg ACLRight = 't'
	ACLRightExpunge  ACLRight = 'e'
	ACLRightAdmin    ACLRight = 'a'
)

// ACLRights is an identifier's right set, the unparsed form being a
// string of ACLRight bytes (e.g. "lrswipkxte").
type ACLRights string

// Contains reports whether the right set includes r.
func (rs ACLRights) Contains(r ACLRight) bool {
	for i := 0; i < len(rs); i++ {
		if ACLRight(rs[i]) == r {
			return true
		}
	}
	return false
}

// ACLData is the reshaped GETACL response: one entry per identifier.
type ACLData struct {
	Mailbox string
	Rights  map[string]ACLRights // identifier -> rights
}

// ACLListRightsData is the reshaped LISTRIGHTS response.
type ACLListRightsData struct {
	Mailbox    string
	Identifier string
	Required   ACLRights
	Optional   []ACLRights
}

// ACLMyRightsData is the reshaped MYRIGHTS response.
type ACLMyRightsData struct {
	Mailbox string
	Rights  ACLRights
}

// QuotaResource is one named resource in a QUOTA response (RFC 2087 §5).
type QuotaResource string

const (
	QuotaResourceStorage  QuotaResource = "STORAGE"
	QuotaResourceMessages QuotaResource = "MESSAGE"
)

// QuotaResourceData is one resource's usage/limit pair.
type QuotaResourceData struct {
	Resource QuotaResource
	Usage    int64
	Limit    int64
}

// QuotaData is the reshaped GETQUOTA/GETQUOTAROOT response for a single
// quota root.
type QuotaData struct {
	Root      string
	Resources []QuotaResourceData
}

// QuotaRootData associates a mailbox with the quota roots that apply to
// it, from the untagged QUOTAROOT response preceding GETQUOTAROOT's
// QUOTA lines.
type QuotaRootData struct {
	Mailbox string
	Roots   []string
}

// NamespaceDescriptor is one namespace entry (RFC 2342 §5).
type NamespaceDescriptor struct {
	Prefix    string
	Delim     rune
	HasDelim  bool
}

// NamespaceData is the reshaped NAMESPACE response: personal, other
// users', and shared namespaces, any of which may be absent (NIL).
type NamespaceData struct {
	Personal []NamespaceDescriptor
	Other    []NamespaceDescriptor
	Shared   []NamespaceDescriptor
}

// MetadataEntry is one annotation/metadata entry path and value, used by
// both the ANNOTATEMORE and METADATA access patterns (spec's
// "ANNOTATEMORE" extension item covers the entry/value/attribute model
// either protocol exposes).
type MetadataEntry struct {
	Entry string
	Value []byte
	// IsNil distinguishes an explicit NIL value (meaning "unset this
	// entry" on SETMETADATA, or "no value" on a GETMETADATA response)
	// from a present zero-length value.
	IsNil bool
}

// MetadataDepth selects how far GETMETADATA descends below the
// requested entries (RFC 5464 §4.2.2).
type MetadataDepth int

const (
	MetadataDepthZero     MetadataDepth = 0
	MetadataDepthOne      MetadataDepth = 1
	MetadataDepthInfinity MetadataDepth = -1
)

// MetadataOptions configures GETMETADATA.
type MetadataOptions struct {
	Depth   MetadataDepth
	MaxSize int64 // 0 means unset
}

// MetadataData is the reshaped GETMETADATA response for one mailbox (the
// empty string names the server-wide/"" mailbox).
type MetadataData struct {
	Mailbox string
	Entries []MetadataEntry
}

// IDData is the reshaped server ID response (RFC 2971), a set of
// implementation field/value pairs, any of which may be absent.
type IDData map[string]string

// ID field names defined by RFC 2971 §3.3. Callers are not limited to
// these when building a client ID request.
const (
	IDFieldName            = "name"
	IDFieldVersion         = "version"
	IDFieldOS              = "os"
	IDFieldOSVersion       = "os-version"
	IDFieldVendor          = "vendor"
	IDFieldSupportURL      = "support-url"
	IDFieldAddress         = "address"
	IDFieldDate            = "date"
	IDFieldCommand         = "command"
	IDFieldArguments       = "arguments"
	IDFieldEnvironment     = "environment"
)
