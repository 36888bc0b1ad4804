package imap

import "testing"

func TestParseNumSet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single", "5", "5"},
		{"range", "1:10", "1:10"},
		{"wildcard", "10:*", "10:*"},
		{"mixed", "1,3:5,10:*", "1,3:5,10:*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := ParseNumSet(tt.input)
			if err != nil {
				t.Fatalf("ParseNumSet(%q) error: %v", tt.input, err)
			}
			if got := ns.String(); got != tt.want {
				t.Errorf("ParseNumSet(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumSet_Invalid(t *testing.T) {
	tests := []string{"", "1,,2", "abc", "1:"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if _, err := ParseNumSet(s); err == nil {
				t.Errorf("ParseNumSet(%q) error = nil, want error", s)
			}
		})
	}
}

func TestNumRange_Contains(t *testing.T) {
	tests := []struct {
		name  string
		r     NumRange
		num   uint32
		want  bool
	}{
		{"in range", NumRange{1, 10}, 5, true},
		{"below range", NumRange{5, 10}, 3, false},
		{"above range", NumRange{5, 10}, 11, false},
		{"wildcard open", NumRange{5, 0}, 1000, true},
		{"wildcard below start", NumRange{5, 0}, 1, false},
		{"single", NumRange{7, 7}, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.num); got != tt.want {
				t.Errorf("NumRange(%+v).Contains(%d) = %v, want %v", tt.r, tt.num, got, tt.want)
			}
		})
	}
}

func TestNumSet_Dynamic(t *testing.T) {
	static, _ := ParseNumSet("1,2:5")
	if static.Dynamic() {
		t.Error("Dynamic() = true for a fully bounded set, want false")
	}
	dynamic, _ := ParseNumSet("10:*")
	if !dynamic.Dynamic() {
		t.Error("Dynamic() = false for a wildcard-bounded set, want true")
	}
}

func TestNumSet_IsEmpty(t *testing.T) {
	var ns NumSet
	if !ns.IsEmpty() {
		t.Error("IsEmpty() = false for zero-value NumSet, want true")
	}
	full, _ := ParseNumSet("1")
	if full.IsEmpty() {
		t.Error("IsEmpty() = true for a populated NumSet, want false")
	}
}

func TestSeqSetNum_UIDSetNum(t *testing.T) {
	seq := SeqSetNum(1, 2, 3)
	if got := seq.String(); got != "1,2,3" {
		t.Errorf("SeqSetNum(1,2,3).String() = %q, want %q", got, "1,2,3")
	}
	uids := UIDSetNum(UID(100), UID(200))
	if got := uids.String(); got != "100,200" {
		t.Errorf("UIDSetNum(100,200).String() = %q, want %q", got, "100,200")
	}
}
