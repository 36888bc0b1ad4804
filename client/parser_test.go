package client

import (
	"bufio"
	"fmt"
	"net"
	"testing"

	imapkit "github.com/imapkit/imapkit"
)

// TestList_StripsRootPrefix encodes spec.md's testable scenario 1: a
// server LIST line naming a mailbox under the configured root must
// come back with the root prefix stripped and the attrs/delim
// preserved.
func TestList_StripsRootPrefix(t *testing.T) {
	s := pipeSession(t, "* OK ready\r\n", func(server net.Conn, r *bufio.Reader) {
		_, _ = r.ReadString('\n') // LOGIN
		fmt.Fprint(server, "A1 OK LOGIN completed\r\n")

		_, _ = r.ReadString('\n') // LIST
		fmt.Fprint(server, "* LIST (\\HasNoChildren) \".\" \"INBOX.Sent\"\r\n")
		fmt.Fprint(server, "A2 OK LIST completed\r\n")
	}, WithFolderRewrite("INBOX", '.', "", false))

	if err := s.Login("alice", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	results, err := s.List("", "*", nil)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(results))
	}
	got := results[0]
	if got.Mailbox != "Sent" {
		t.Errorf("Mailbox = %q, want %q", got.Mailbox, "Sent")
	}
	if got.Delim != '.' {
		t.Errorf("Delim = %q, want '.'", got.Delim)
	}
	if len(got.Attrs) != 1 || got.Attrs[0] != imapkit.MailboxAttrHasNoChildren {
		t.Errorf("Attrs = %v, want [\\HasNoChildren]", got.Attrs)
	}
}

// TestUIDFetch_KeysResultByUID encodes spec.md's testable scenario 2
// (spec invariant I5): "A1 UID FETCH 1:* (FLAGS UID)" must produce a
// FetchResult keyed by UID, not by the sequence numbers the server's
// untagged "* <n> FETCH" lines carry.
func TestUIDFetch_KeysResultByUID(t *testing.T) {
	s := pipeSession(t, "* OK ready\r\n", func(server net.Conn, r *bufio.Reader) {
		_, _ = r.ReadString('\n') // LOGIN
		fmt.Fprint(server, "A1 OK LOGIN completed\r\n")

		_, _ = r.ReadString('\n') // SELECT
		fmt.Fprint(server, "A2 OK SELECT completed\r\n")

		line, _ := r.ReadString('\n')
		if got := line; got == "" {
			t.Error("server saw no UID FETCH command")
		}
		fmt.Fprint(server, "* 1 FETCH (FLAGS (\\Seen) UID 1952)\r\n")
		fmt.Fprint(server, "* 2 FETCH (FLAGS () UID 1958)\r\n")
		fmt.Fprint(server, "A3 OK UID FETCH completed\r\n")
	})

	if err := s.Login("alice", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if _, err := s.Select("INBOX", nil); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	set, err := imapkit.ParseNumSet("1:4294967295")
	if err != nil {
		t.Fatalf("ParseNumSet() error: %v", err)
	}
	result, err := s.UIDFetch(set, &imapkit.FetchOptions{Flags: true})
	if err != nil {
		t.Fatalf("UIDFetch() error: %v", err)
	}

	if _, ok := result[1]; ok {
		t.Error("result keyed by sequence number 1, want keyed by UID only")
	}
	if _, ok := result[2]; ok {
		t.Error("result keyed by sequence number 2, want keyed by UID only")
	}
	a1, ok := result[1952]
	if !ok {
		t.Fatal("result missing entry keyed by UID 1952")
	}
	if a1.Num != 1952 || a1.UID != 1952 {
		t.Errorf("entry 1952: Num=%d UID=%d, want both 1952", a1.Num, a1.UID)
	}
	if len(a1.Flags) != 1 || a1.Flags[0] != imapkit.FlagSeen {
		t.Errorf("entry 1952 Flags = %v, want [\\Seen]", a1.Flags)
	}
	a2, ok := result[1958]
	if !ok {
		t.Fatal("result missing entry keyed by UID 1958")
	}
	if a2.Num != 1958 || a2.UID != 1958 {
		t.Errorf("entry 1958: Num=%d UID=%d, want both 1958", a2.Num, a2.UID)
	}
}

// TestFetch_SequenceKeyedWithoutUID confirms plain (non-UID) FETCH is
// unaffected by the UID re-keying logic: results stay keyed by
// sequence number even when the server happens to also report UID.
func TestFetch_SequenceKeyedWithoutUID(t *testing.T) {
	s := pipeSession(t, "* OK ready\r\n", func(server net.Conn, r *bufio.Reader) {
		_, _ = r.ReadString('\n') // LOGIN
		fmt.Fprint(server, "A1 OK LOGIN completed\r\n")

		_, _ = r.ReadString('\n') // SELECT
		fmt.Fprint(server, "A2 OK SELECT completed\r\n")

		_, _ = r.ReadString('\n') // FETCH
		fmt.Fprint(server, "* 1 FETCH (FLAGS (\\Seen) UID 1952)\r\n")
		fmt.Fprint(server, "A3 OK FETCH completed\r\n")
	})

	if err := s.Login("alice", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if _, err := s.Select("INBOX", nil); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	result, err := s.Fetch(imapkit.SeqSetNum(1), &imapkit.FetchOptions{Flags: true, UID: true})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if _, ok := result[1]; !ok {
		t.Fatal("result missing entry keyed by sequence number 1")
	}
	if _, ok := result[1952]; ok {
		t.Error("plain FETCH result re-keyed by UID, want sequence-number keying")
	}
}

// TestFetch_LiteralBytesExact encodes spec.md's testable scenario 3:
// a BODY[] literal's payload must come back byte-for-byte, including
// embedded CRLFs and a trailing byte count matching the announced
// literal size.
func TestFetch_LiteralBytesExact(t *testing.T) {
	payload := "From: a@b\r\nSubject: hi\r\n\r\nline one\r\nline two\r\n"
	s := pipeSession(t, "* OK ready\r\n", func(server net.Conn, r *bufio.Reader) {
		_, _ = r.ReadString('\n') // LOGIN
		fmt.Fprint(server, "A1 OK LOGIN completed\r\n")

		_, _ = r.ReadString('\n') // SELECT
		fmt.Fprint(server, "A2 OK SELECT completed\r\n")

		_, _ = r.ReadString('\n') // FETCH
		fmt.Fprintf(server, "* 1 FETCH (BODY[] {%d}\r\n%s)\r\n", len(payload), payload)
		fmt.Fprint(server, "A3 OK FETCH completed\r\n")
	})

	if err := s.Login("alice", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if _, err := s.Select("INBOX", nil); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	result, err := s.Fetch(imapkit.SeqSetNum(1), &imapkit.FetchOptions{
		BodySection: []*imapkit.BodySectionSpec{{}},
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	attrs, ok := result[1]
	if !ok {
		t.Fatal("result missing entry for sequence 1")
	}
	section, ok := attrs.BodySection[(&imapkit.BodySectionSpec{}).String()]
	if !ok {
		t.Fatalf("BodySection missing entry; got keys %v", attrs.BodySection)
	}
	if string(section.Data) != payload {
		t.Errorf("literal payload = %q, want %q", section.Data, payload)
	}
	if len(section.Data) != len(payload) {
		t.Errorf("literal length = %d, want %d", len(section.Data), len(payload))
	}
}
