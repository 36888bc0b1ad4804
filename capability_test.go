package imap

import "testing"

func TestCapabilitySet_Has(t *testing.T) {
	cs := NewCapabilitySet([]string{"IMAP4rev1", "STARTTLS", "AUTH=PLAIN"})

	tests := []struct {
		cap  Cap
		want bool
	}{
		{CapIMAP4rev1, true},
		{CapStartTLS, true},
		{CapAuthPlain, true},
		{CapLoginDisabled, false},
		{Cap("starttls"), true}, // case-insensitive
	}
	for _, tt := range tests {
		t.Run(string(tt.cap), func(t *testing.T) {
			if got := cs.Has(tt.cap); got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.cap, got, tt.want)
			}
		})
	}
}

func TestCapabilitySet_HasAuth(t *testing.T) {
	cs := NewCapabilitySet([]string{"AUTH=PLAIN", "AUTH=LOGIN"})
	if !cs.HasAuth("plain") {
		t.Error(`HasAuth("plain") = false, want true`)
	}
	if cs.HasAuth("gssapi") {
		t.Error(`HasAuth("gssapi") = true, want false`)
	}
}

func TestCapabilitySet_NilReceiver(t *testing.T) {
	var cs *CapabilitySet
	if cs.Has(CapStartTLS) {
		t.Error("Has() on nil CapabilitySet = true, want false")
	}
	if cs.All() != nil {
		t.Error("All() on nil CapabilitySet != nil")
	}
}
