package wire

import "testing"

func TestEncodeMailboxUTF7_ASCIIPassthrough(t *testing.T) {
	if got := EncodeMailboxUTF7("INBOX/Archive"); got != "INBOX/Archive" {
		t.Errorf("EncodeMailboxUTF7() = %q, want unchanged", got)
	}
}

func TestEncodeMailboxUTF7_Ampersand(t *testing.T) {
	if got := EncodeMailboxUTF7("a&b"); got != "a&-b" {
		t.Errorf("EncodeMailboxUTF7() = %q, want %q", got, "a&-b")
	}
}

func TestEncodeMailboxUTF7_NonASCII(t *testing.T) {
	// "Käse" is the canonical modified-UTF-7 example from RFC 3501.
	got := EncodeMailboxUTF7("Käse")
	want := "K&AOQ-se"
	if got != want {
		t.Errorf("EncodeMailboxUTF7() = %q, want %q", got, want)
	}
}

func TestDecodeMailboxUTF7_RoundTrip(t *testing.T) {
	tests := []string{
		"INBOX/Archive",
		"a&b",
		"Käse",
		"日本語/Drafts",
		"&",
		"",
	}
	for _, want := range tests {
		t.Run(want, func(t *testing.T) {
			encoded := EncodeMailboxUTF7(want)
			got, err := DecodeMailboxUTF7(encoded)
			if err != nil {
				t.Fatalf("DecodeMailboxUTF7(%q) error: %v", encoded, err)
			}
			if got != want {
				t.Errorf("round trip = %q, want %q (via %q)", got, want, encoded)
			}
		})
	}
}

func TestDecodeMailboxUTF7_Literal(t *testing.T) {
	got, err := DecodeMailboxUTF7("K&AOQ-se")
	if err != nil {
		t.Fatalf("DecodeMailboxUTF7() error: %v", err)
	}
	if got != "Käse" {
		t.Errorf("DecodeMailboxUTF7() = %q, want %q", got, "Käse")
	}
}

func TestDecodeMailboxUTF7_UnterminatedShift(t *testing.T) {
	if _, err := DecodeMailboxUTF7("K&AOQ"); err == nil {
		t.Error("DecodeMailboxUTF7() error = nil, want non-nil for unterminated shift sequence")
	}
}

func TestDecodeMailboxUTF7_InvalidBase64(t *testing.T) {
	if _, err := DecodeMailboxUTF7("K&!!!-se"); err == nil {
		t.Error("DecodeMailboxUTF7() error = nil, want non-nil for invalid base64")
	}
}
