package client

import "testing"

func TestFolderRewriter_NoRoot(t *testing.T) {
	r := newFolderRewriter("", '/', "", false)
	if got := r.ToServer("Archive/2024"); got != "Archive/2024" {
		t.Errorf("ToServer() = %q, want unchanged", got)
	}
	if got := r.ToLocal("Archive/2024"); got != "Archive/2024" {
		t.Errorf("ToLocal() = %q, want unchanged", got)
	}
}

func TestFolderRewriter_ToServerAddsRoot(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	if got := r.ToServer("Archive/2024"); got != "INBOX/Archive/2024" {
		t.Errorf("ToServer() = %q, want %q", got, "INBOX/Archive/2024")
	}
}

func TestFolderRewriter_ToServerSkipsExactRoot(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	if got := r.ToServer("INBOX"); got != "INBOX" {
		t.Errorf("ToServer(\"INBOX\") = %q, want %q", got, "INBOX")
	}
	// Case-sensitive config: a differently-cased name does not match M1
	// and is prefixed like any other local name.
	if got := r.ToServer("inbox"); got != "INBOX/inbox" {
		t.Errorf("ToServer(\"inbox\") = %q, want %q", got, "INBOX/inbox")
	}
}

func TestFolderRewriter_ToServerNonInboxRoot(t *testing.T) {
	// Regression: M1 must test against the configured root, not a
	// hardcoded "INBOX" literal.
	r := newFolderRewriter("Mail", '.', "", false)
	if got := r.ToServer("Mail"); got != "Mail" {
		t.Errorf("ToServer(\"Mail\") = %q, want %q (exact root match)", got, "Mail")
	}
	if got := r.ToServer("Archive"); got != "Mail.Archive" {
		t.Errorf("ToServer(\"Archive\") = %q, want %q", got, "Mail.Archive")
	}
}

func TestFolderRewriter_ToServerWildcardBypass(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	if got := r.ToServer("%"); got != "%" {
		t.Errorf("ToServer(\"%%\") = %q, want unchanged", got)
	}
	if got := r.ToServer("*"); got != "*" {
		t.Errorf("ToServer(\"*\") = %q, want unchanged", got)
	}
	if got := r.ToServer("Archive/%"); got != "Archive/%" {
		t.Errorf("ToServer(\"Archive/%%\") = %q, want unchanged", got)
	}
}

func TestFolderRewriter_ToLocalStripsRoot(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	if got := r.ToLocal("INBOX/Archive/2024"); got != "Archive/2024" {
		t.Errorf("ToLocal() = %q, want %q", got, "Archive/2024")
	}
}

func TestFolderRewriter_ToLocalUnchangedWithoutRoot(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	if got := r.ToLocal("Sent"); got != "Sent" {
		t.Errorf("ToLocal() = %q, want unchanged %q", got, "Sent")
	}
}

func TestFolderRewriter_Idempotent(t *testing.T) {
	r := newFolderRewriter("INBOX", '/', "", false)
	local := "Archive/2024"
	server := r.ToServer(local)
	if got := r.ToServer(server); got != server {
		t.Errorf("ToServer(ToServer(x)) = %q, want %q (idempotent)", got, server)
	}
	if got := r.ToLocal(r.ToLocal(server)); got != r.ToLocal(server) {
		t.Errorf("ToLocal(ToLocal(x)) != ToLocal(x) (idempotent)")
	}
}

func TestFolderRewriter_AltRootCaseInsensitive(t *testing.T) {
	r := newFolderRewriter("INBOX", '.', "inbox", true)
	if got := r.ToServer("inbox.Archive"); got != "inbox.Archive" {
		t.Errorf("ToServer() = %q, want unchanged (already carries alt root)", got)
	}
	if got := r.ToLocal("INBOX.Archive"); got != "Archive" {
		t.Errorf("ToLocal() = %q, want %q", got, "Archive")
	}
}

func TestFolderRewriter_Scenario6(t *testing.T) {
	r := newFolderRewriter("INBOX", '.', "user", true)
	tests := []struct {
		local string
		want  string
	}{
		{"INBOX", "INBOX"},
		{"Sent", "INBOX.Sent"},
		{"inbox.Drafts", "inbox.Drafts"},
		{"user.alice", "user.alice"},
		{"*", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			if got := r.ToServer(tt.local); got != tt.want {
				t.Errorf("ToServer(%q) = %q, want %q", tt.local, got, tt.want)
			}
		})
	}
}

func TestFolderRewriter_Delim(t *testing.T) {
	r := newFolderRewriter("INBOX", '.', "", false)
	if got := r.Delim(); got != '.' {
		t.Errorf("Delim() = %q, want %q", got, '.')
	}
}
