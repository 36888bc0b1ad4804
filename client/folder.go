package client

import (
	"regexp"
	"strings"

	"github.com/imapkit/imapkit/wire"
)

// folderRewriter translates between the mailbox names a caller works
// with and the names the server actually uses, when the server
// namespaces all mailboxes under a root prefix (spec §4.F). It
// precomputes two matchers once, at construction, rather than building
// a regexp per call:
//
//   - hasRootMatcher (M1) recognizes a local name that already carries
//     the prefix: exactly root, begins with root+sep, or (if altRoot is
//     set) exactly altRoot or begins with altRoot+sep. ToServer consults
//     it to avoid double-prepending.
//   - stripMatcher (M2) recognizes a server-side name beginning with
//     root+sep, for ToLocal and for stripping LIST/LSUB results. Unlike
//     M1 it does not cover altRoot — the spec only strips the primary
//     root.
//
// ToServer never prepends the root twice: a name that already carries
// it (per M1) keeps a single prefix. Neither direction is idempotent as
// a whole, though: ToServer applies the modified UTF-7 encoding again on
// every call (so "a&b" becomes "a&-b", then "a&--b"), and ToLocal strips
// one root prefix per call.
type folderRewriter struct {
	root            string
	altRoot         string
	sep             string
	caseInsensitive bool

	stripMatcher   *regexp.Regexp
	hasRootMatcher *regexp.Regexp
}

// newFolderRewriter builds a rewriter. An empty root disables prefix
// rewriting: ToLocal and ToServer then only apply the modified UTF-7
// decoding and encoding.
func newFolderRewriter(root string, sep rune, altRoot string, caseInsensitive bool) *folderRewriter {
	r := &folderRewriter{
		root:            root,
		altRoot:         altRoot,
		sep:             string(sep),
		caseInsensitive: caseInsensitive,
	}
	if root == "" {
		return r
	}

	qsep := regexp.QuoteMeta(r.sep)
	qroot := regexp.QuoteMeta(root)
	m1 := []string{"^" + qroot + "$", "^" + qroot + qsep}
	if altRoot != "" {
		qalt := regexp.QuoteMeta(altRoot)
		m1 = append(m1, "^"+qalt+"$", "^"+qalt+qsep)
	}
	prefix := ""
	if caseInsensitive {
		prefix = "(?i)"
	}
	r.hasRootMatcher = regexp.MustCompile(prefix + "(?:" + strings.Join(m1, "|") + ")")
	r.stripMatcher = regexp.MustCompile(prefix + "^" + qroot + qsep)
	return r
}

// ToLocal strips the configured root prefix from a server-reported
// mailbox name and decodes it out of modified UTF-7 (spec §4.F,
// RFC 3501 §5.1.3). A name that does not carry the prefix has its root
// stripping skipped but is still UTF-7 decoded. A name that fails to
// decode (a server sending raw UTF-8 despite not advertising it, or a
// malformed shift sequence) is returned as received rather than
// dropped.
func (r *folderRewriter) ToLocal(serverName string) string {
	wireName := serverName
	if r.root != "" && r.stripMatcher != nil {
		if loc := r.stripMatcher.ReplaceAllString(serverName, ""); loc != serverName {
			wireName = loc
		}
	}
	if decoded, err := wire.DecodeMailboxUTF7(wireName); err == nil {
		return decoded
	}
	return wireName
}

// ToServer adds the configured root prefix to a caller-supplied local
// mailbox name, unless the name already carries it per M1 (exactly
// root or altRoot, or already beginning with root+sep or altRoot+sep),
// and encodes the result into modified UTF-7. A name containing a LIST
// wildcard (`%` or `*`) is returned completely unchanged, per spec
// §4.F's wildcard-mode bypass — prefixing or encoding a wildcard
// pattern would change what it matches on the server.
func (r *folderRewriter) ToServer(localName string) string {
	if strings.ContainsAny(localName, "%*") {
		return localName
	}
	if r.root == "" || r.hasRootMatcher.MatchString(localName) {
		return wire.EncodeMailboxUTF7(localName)
	}
	return wire.EncodeMailboxUTF7(r.root + r.sep + localName)
}

// Delim returns the configured hierarchy separator.
func (r *folderRewriter) Delim() rune {
	if r.sep == "" {
		return '/'
	}
	return rune(r.sep[0])
}
