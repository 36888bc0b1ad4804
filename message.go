package imap

import "time"

// StoreAction specifies how STORE/UID STORE modifies a message's flags.
type StoreAction int

const (
	StoreFlagsSet StoreAction = iota // FLAGS
	StoreFlagsAdd                    // +FLAGS
	StoreFlagsDel                    // -FLAGS
)

// String returns the STORE item keyword for the action.
func (a StoreAction) String() string {
	switch a {
	case StoreFlagsAdd:
		return "+FLAGS"
	case StoreFlagsDel:
		return "-FLAGS"
	default:
		return "FLAGS"
	}
}

// SearchCriteria is a (necessarily partial) builder for SEARCH/UID SEARCH
// key lists. Fields left at their zero value are omitted from the
// generated query. This core supports the RFC 3501 base key set; charset
// negotiation and extension search keys are left to the caller via Raw.
type SearchCriteria struct {
	Since      time.Time
	Before     time.Time
	SentSince  time.Time
	SentBefore time.Time
	On         time.Time

	Header map[string]string
	Body   []string
	Text   []string

	Larger  int64
	Smaller int64

	Flag    []Flag
	NotFlag []Flag

	SeqSet *NumSet
	UIDSet *NumSet

	// Raw, when non-empty, is appended verbatim after the generated
	// criteria, for search keys this builder does not model directly.
	Raw string
}

// CopyData is the reshaped result of COPY/UID COPY/MOVE (the COPYUID
// response code, RFC 4315).
type CopyData struct {
	UIDValidity uint32
	SourceUIDs  *NumSet
	DestUIDs    *NumSet
}

// AppendOptions configures the APPEND command.
type AppendOptions struct {
	Flags        []Flag
	InternalDate time.Time
}

// AppendData is the reshaped result of APPEND (the APPENDUID response
// code, RFC 4315).
type AppendData struct {
	UIDValidity uint32
	UID         UID
}

// SortKey is a SORT criterion key (RFC 5256 §3).
type SortKey string

const (
	SortKeyArrival SortKey = "ARRIVAL"
	SortKeyCc      SortKey = "CC"
	SortKeyDate    SortKey = "DATE"
	SortKeyFrom    SortKey = "FROM"
	SortKeySize    SortKey = "SIZE"
	SortKeySubject SortKey = "SUBJECT"
	SortKeyTo      SortKey = "TO"
)

// SortCriterion is one key in a SORT command's sort-criteria list.
type SortCriterion struct {
	Key     SortKey
	Reverse bool
}

// ThreadAlgorithm selects a THREAD command's threading algorithm.
type ThreadAlgorithm string

const (
	ThreadOrderedSubject ThreadAlgorithm = "ORDEREDSUBJECT"
	ThreadReferences     ThreadAlgorithm = "REFERENCES"
)

// Thread is one node of a THREAD response tree.
type Thread struct {
	Num      uint32
	Children []*Thread
}
