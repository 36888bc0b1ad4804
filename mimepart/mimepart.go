// Package mimepart provides free functions over *imap.BodyStructure for
// the MIME-walking tasks a mail client needs after a BODYSTRUCTURE
// fetch: finding the best text part to render, mapping Content-ID to
// part number for inline images, and resolving a dotted part number
// back to the BodyStructure node it names. None of it depends on a
// Session; it operates purely on the reshaped tree.
package mimepart

import (
	"strconv"
	"strings"

	imapkit "github.com/imapkit/imapkit"
)

// textCandidate is one part walk() found that could serve as the
// message's displayable body.
type textCandidate struct {
	part    *imapkit.BodyStructure
	partNum string
	isHTML  bool
}

// walk visits every node of tree (multipart containers and embedded
// message/rfc822 parts included) in part-number order using an
// explicit stack rather than native recursion, consistent with how the
// rest of this library treats BODYSTRUCTURE depth as attacker-controlled.
func walk(tree *imapkit.BodyStructure, visit func(part *imapkit.BodyStructure, partNum string)) {
	type frame struct {
		node    *imapkit.BodyStructure
		partNum string
	}
	if tree == nil {
		return
	}
	stack := []frame{{tree, tree.PartNum}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.node == nil {
			continue
		}
		visit(top.node, top.partNum)
		if top.node.IsMessageRFC822() && top.node.BodyStructure != nil {
			stack = append(stack, frame{top.node.BodyStructure, top.partNum})
			continue
		}
		if top.node.IsMultipart() {
			// Push in reverse so children are visited in ascending order.
			for i := len(top.node.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{top.node.Children[i], top.node.Children[i].PartNum})
			}
		}
	}
}

// FindTextPart returns the part number and structure of the best
// part to render as the message body: text/plain is preferred over
// text/html unless preferHTML is set, and the last matching leaf in
// part-number order wins, anywhere in the tree (so within a
// multipart/alternative group the last alternative wins; RFC 2046
// §5.1.4 says later alternatives are progressively more faithful
// renderings). Parts with a Content-Disposition of "attachment" are
// never candidates.
func FindTextPart(root *imapkit.BodyStructure, preferHTML bool) (partNum string, part *imapkit.BodyStructure, ok bool) {
	var plain, html *textCandidate
	walk(root, func(p *imapkit.BodyStructure, num string) {
		if p.IsMultipart() || p.IsMessageRFC822() {
			return
		}
		if isAttachment(p) {
			return
		}
		switch {
		case strings.EqualFold(p.Type, "text") && strings.EqualFold(p.Subtype, "plain"):
			plain = &textCandidate{part: p, partNum: num}
		case strings.EqualFold(p.Type, "text") && strings.EqualFold(p.Subtype, "html"):
			html = &textCandidate{part: p, partNum: num, isHTML: true}
		}
	})
	if preferHTML && html != nil {
		return html.partNum, html.part, true
	}
	if plain != nil {
		return plain.partNum, plain.part, true
	}
	if html != nil {
		return html.partNum, html.part, true
	}
	return "", nil, false
}

// isAttachment reports whether p's Content-Disposition names it an
// attachment rather than inline content.
func isAttachment(p *imapkit.BodyStructure) bool {
	return strings.EqualFold(p.Disposition, "attachment")
}

// BuildCIDMap walks root and returns a map from the bare Content-ID
// (RFC 2392, angle brackets stripped) to the dotted part number of
// every part that declares one, for resolving "cid:" references in an
// HTML body part to the BODY[n] section that holds the referenced
// image or other inline resource.
func BuildCIDMap(root *imapkit.BodyStructure) map[string]string {
	out := make(map[string]string)
	walk(root, func(p *imapkit.BodyStructure, num string) {
		if p.ID == "" {
			return
		}
		out[strings.Trim(p.ID, "<>")] = num
	})
	return out
}

// GetBodyPart resolves a dotted part number like "1.2.3" to the
// BodyStructure node it addresses, per RFC 3501 §6.4.5's part-number
// rules: numbering restarts inside an embedded message/rfc822 part, and
// a single non-multipart body's own content is addressed as part "1".
func GetBodyPart(root *imapkit.BodyStructure, partNum string) (*imapkit.BodyStructure, bool) {
	if partNum == "" {
		return root, root != nil
	}
	indices, err := parsePartNum(partNum)
	if err != nil {
		return nil, false
	}
	node := root
	for _, idx := range indices {
		if node == nil {
			return nil, false
		}
		if node.IsMessageRFC822() && node.BodyStructure != nil {
			node = node.BodyStructure
		}
		if !node.IsMultipart() {
			// A non-multipart part addressed with more than one
			// remaining index has no such child.
			if idx == 1 {
				continue
			}
			return nil, false
		}
		if idx < 1 || idx > len(node.Children) {
			return nil, false
		}
		node = node.Children[idx-1]
	}
	return node, node != nil
}

func parsePartNum(s string) ([]int, error) {
	fields := strings.Split(s, ".")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
