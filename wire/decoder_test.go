package wire

import (
	"net"
	"strings"
	"testing"
)

func newTestDecoder(t *testing.T, input string) *Decoder {
	t.Helper()
	server, clientConn := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = clientConn.Close()
	})
	go func() {
		_, _ = server.Write([]byte(input))
	}()
	return NewDecoder(NewStream(clientConn, 0, 0))
}

func TestDecoder_ReadAtom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "CAPABILITY\r\n", "CAPABILITY"},
		{"with digits", "A123 ", "A123"},
		{"stops at SP", "FOO BAR", "FOO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(t, tt.input)
			got, err := d.ReadAtom()
			if err != nil {
				t.Fatalf("ReadAtom() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadAtom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoder_ReadQuotedString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `"hello"`, "hello"},
		{"escaped quote", `"a\"b"`, `a"b`},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"empty", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(t, tt.input)
			got, err := d.ReadQuotedString()
			if err != nil {
				t.Fatalf("ReadQuotedString() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadQuotedString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecoder_ReadLiteralInfo(t *testing.T) {
	d := newTestDecoder(t, "{5}\r\nhello")
	info, err := d.ReadLiteralInfo()
	if err != nil {
		t.Fatalf("ReadLiteralInfo() error: %v", err)
	}
	if info.Size != 5 || info.NonSync {
		t.Errorf("ReadLiteralInfo() = %+v, want Size=5 NonSync=false", info)
	}
	data, err := d.ReadLiteral(info.Size)
	if err != nil {
		t.Fatalf("ReadLiteral() error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadLiteral() = %q, want %q", data, "hello")
	}
}

func TestDecoder_ReadLiteralInfo_NonSync(t *testing.T) {
	d := newTestDecoder(t, "{3+}\r\nabc")
	info, err := d.ReadLiteralInfo()
	if err != nil {
		t.Fatalf("ReadLiteralInfo() error: %v", err)
	}
	if info.Size != 3 || !info.NonSync {
		t.Errorf("ReadLiteralInfo() = %+v, want Size=3 NonSync=true", info)
	}
}

func TestDecoder_ReadNString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantStr string
	}{
		{"nil", "NIL ", false, ""},
		{"lowercase nil", "nil ", false, ""},
		{"quoted", `"foo" `, true, "foo"},
		{"atom-like nilish", "NILFOO ", true, "NILFOO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(t, tt.input)
			s, ok, err := d.ReadNString()
			if err != nil {
				t.Fatalf("ReadNString() error: %v", err)
			}
			if ok != tt.wantOK || s != tt.wantStr {
				t.Errorf("ReadNString() = (%q, %v), want (%q, %v)", s, ok, tt.wantStr, tt.wantOK)
			}
		})
	}
}

func TestDecoder_ReadNumber(t *testing.T) {
	d := newTestDecoder(t, "42 ")
	n, err := d.ReadNumber()
	if err != nil {
		t.Fatalf("ReadNumber() error: %v", err)
	}
	if n != 42 {
		t.Errorf("ReadNumber() = %d, want 42", n)
	}
}

func TestDecoder_ReadFlags(t *testing.T) {
	d := newTestDecoder(t, `(\Seen \Answered $Custom)`)
	flags, err := d.ReadFlags()
	if err != nil {
		t.Fatalf("ReadFlags() error: %v", err)
	}
	want := []string{`\Seen`, `\Answered`, `$Custom`}
	if len(flags) != len(want) {
		t.Fatalf("ReadFlags() = %v, want %v", flags, want)
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("ReadFlags()[%d] = %q, want %q", i, flags[i], want[i])
		}
	}
}

func TestDecoder_ReadCRLF_ToleratesBareLF(t *testing.T) {
	d := newTestDecoder(t, "\n")
	if err := d.ReadCRLF(); err != nil {
		t.Errorf("ReadCRLF() error = %v, want nil for bare LF", err)
	}
}

func TestNeedsQuoting(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"INBOX", false},
		{"", true},
		{"has space", true},
		{`quote"mark`, true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := NeedsQuoting(tt.s); got != tt.want {
				t.Errorf("NeedsQuoting(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestNeedsLiteral(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"plain", false},
		{"has\r\nCRLF", true},
		{"non-ascii \xE2\x98\x83", true},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.s, "\r\n", "<crlf>"), func(t *testing.T) {
			if got := NeedsLiteral(tt.s); got != tt.want {
				t.Errorf("NeedsLiteral(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}
