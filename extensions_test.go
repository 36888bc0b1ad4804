package imap

import "testing"

func TestACLRights_Contains(t *testing.T) {
	rights := ACLRights("lrswipkxte")

	tests := []struct {
		r    ACLRight
		want bool
	}{
		{ACLRightLookup, true},
		{ACLRightRead, true},
		{ACLRightAdmin, false},
		{ACLRightExpunge, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			if got := rights.Contains(tt.r); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestACLRights_ContainsEmpty(t *testing.T) {
	var rights ACLRights
	if rights.Contains(ACLRightRead) {
		t.Error("Contains() on empty ACLRights = true, want false")
	}
}
