package mimepart

import (
	"testing"

	imapkit "github.com/imapkit/imapkit"
)

func multipartAlternative() *imapkit.BodyStructure {
	plain := &imapkit.BodyStructure{Type: "text", Subtype: "plain", PartNum: "1"}
	html := &imapkit.BodyStructure{Type: "text", Subtype: "html", PartNum: "2"}
	return &imapkit.BodyStructure{
		Type:     "multipart",
		Subtype:  "alternative",
		Children: []*imapkit.BodyStructure{plain, html},
	}
}

func TestFindTextPart_PrefersPlain(t *testing.T) {
	num, part, ok := FindTextPart(multipartAlternative(), false)
	if !ok {
		t.Fatal("FindTextPart() ok = false, want true")
	}
	if num != "1" || part.Subtype != "plain" {
		t.Errorf("FindTextPart() = (%q, %+v), want part 1 (plain)", num, part)
	}
}

func TestFindTextPart_PreferHTML(t *testing.T) {
	num, part, ok := FindTextPart(multipartAlternative(), true)
	if !ok {
		t.Fatal("FindTextPart() ok = false, want true")
	}
	if num != "2" || part.Subtype != "html" {
		t.Errorf("FindTextPart() = (%q, %+v), want part 2 (html)", num, part)
	}
}

func TestFindTextPart_SkipsAttachments(t *testing.T) {
	root := &imapkit.BodyStructure{
		Type:    "multipart",
		Subtype: "mixed",
		Children: []*imapkit.BodyStructure{
			{Type: "text", Subtype: "plain", PartNum: "1", Disposition: "attachment"},
			{Type: "text", Subtype: "plain", PartNum: "2"},
		},
	}
	num, _, ok := FindTextPart(root, false)
	if !ok || num != "2" {
		t.Errorf("FindTextPart() = (%q, ok=%v), want (\"2\", true)", num, ok)
	}
}

func TestFindTextPart_NoTextPart(t *testing.T) {
	root := &imapkit.BodyStructure{
		Type:    "multipart",
		Subtype: "mixed",
		Children: []*imapkit.BodyStructure{
			{Type: "application", Subtype: "pdf", PartNum: "1"},
		},
	}
	if _, _, ok := FindTextPart(root, false); ok {
		t.Error("FindTextPart() ok = true, want false when there is no text part")
	}
}

func TestBuildCIDMap(t *testing.T) {
	root := &imapkit.BodyStructure{
		Type:    "multipart",
		Subtype: "related",
		Children: []*imapkit.BodyStructure{
			{Type: "text", Subtype: "html", PartNum: "1"},
			{Type: "image", Subtype: "png", PartNum: "2", ID: "<logo@example.com>"},
		},
	}
	cids := BuildCIDMap(root)
	if cids["logo@example.com"] != "2" {
		t.Errorf("BuildCIDMap()[%q] = %q, want %q", "logo@example.com", cids["logo@example.com"], "2")
	}
	if len(cids) != 1 {
		t.Errorf("BuildCIDMap() has %d entries, want 1", len(cids))
	}
}

func TestGetBodyPart(t *testing.T) {
	root := &imapkit.BodyStructure{
		Type:    "multipart",
		Subtype: "mixed",
		Children: []*imapkit.BodyStructure{
			{Type: "text", Subtype: "plain", PartNum: "1"},
			{
				Type:    "multipart",
				Subtype: "alternative",
				PartNum: "2",
				Children: []*imapkit.BodyStructure{
					{Type: "text", Subtype: "plain", PartNum: "2.1"},
					{Type: "text", Subtype: "html", PartNum: "2.2"},
				},
			},
		},
	}

	tests := []struct {
		partNum     string
		wantSubtype string
		wantOK      bool
	}{
		{"1", "plain", true},
		{"2.1", "plain", true},
		{"2.2", "html", true},
		{"3", "", false},
		{"2.5", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.partNum, func(t *testing.T) {
			part, ok := GetBodyPart(root, tt.partNum)
			if ok != tt.wantOK {
				t.Fatalf("GetBodyPart(%q) ok = %v, want %v", tt.partNum, ok, tt.wantOK)
			}
			if ok && part.Subtype != tt.wantSubtype {
				t.Errorf("GetBodyPart(%q).Subtype = %q, want %q", tt.partNum, part.Subtype, tt.wantSubtype)
			}
		})
	}
}

func TestGetBodyPart_EmptyAddressesRoot(t *testing.T) {
	root := &imapkit.BodyStructure{Type: "text", Subtype: "plain"}
	part, ok := GetBodyPart(root, "")
	if !ok || part != root {
		t.Error("GetBodyPart(root, \"\") should return root itself")
	}
}
