package wire

import (
	"net"
	"testing"
	"time"
)

func newTestEncoder(t *testing.T) (*Encoder, func() string) {
	t.Helper()
	server, clientConn := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = clientConn.Close()
	})
	e := NewEncoder(NewStream(clientConn, 0, 0))

	read := make(chan string, 1)
	go func() {
		buf := make([]byte, 4096)
		n, _ := server.Read(buf)
		read <- string(buf[:n])
	}()
	return e, func() string {
		select {
		case s := <-read:
			return s
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for encoder output")
			return ""
		}
	}
}

func TestEncoder_QuotedString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", `"hello"`},
		{"with quote", `a"b`, `"a\"b"`},
		{"with backslash", `a\b`, `"a\\b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, read := newTestEncoder(t)
			e.QuotedString(tt.input)
			if err := e.Flush(); err != nil {
				t.Fatalf("Flush() error: %v", err)
			}
			if got := read(); got != tt.want {
				t.Errorf("QuotedString(%q) wrote %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyArg(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want ArgKind
	}{
		{"bare atom", "INBOX", ArgAtom},
		{"needs quoting", "has space", ArgQuoted},
		{"needs literal", "has\r\nCRLF", ArgLiteral},
		{"empty needs quoting", "", ArgQuoted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyArg(tt.s); got != tt.want {
				t.Errorf("ClassifyArg(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestEncoder_List(t *testing.T) {
	e, read := newTestEncoder(t)
	e.List([]string{"FLAGS", `\Seen`, "has space"})
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	want := `(FLAGS \Seen "has space")`
	if got := read(); got != want {
		t.Errorf("List() wrote %q, want %q", got, want)
	}
}

func TestEncoder_MailboxName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"INBOX", "INBOX"},
		{"inbox", "INBOX"},
		{"Archive/2024", "Archive/2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, read := newTestEncoder(t)
			e.MailboxName(tt.name)
			if err := e.Flush(); err != nil {
				t.Fatalf("Flush() error: %v", err)
			}
			if got := read(); got != tt.want {
				t.Errorf("MailboxName(%q) wrote %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncoder_Literal(t *testing.T) {
	e, read := newTestEncoder(t)
	e.Literal("hello")
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	want := "{5}\r\nhello"
	if got := read(); got != want {
		t.Errorf("Literal() wrote %q, want %q", got, want)
	}
}
