package imap

import "testing"

func TestStatusResponse_Error(t *testing.T) {
	tests := []struct {
		name string
		resp StatusResponse
		want string
	}{
		{
			name: "plain NO",
			resp: StatusResponse{Type: StatusNO, Text: "mailbox does not exist"},
			want: "NO mailbox does not exist",
		},
		{
			name: "with code and arg",
			resp: StatusResponse{Type: StatusOK, Code: CodeUIDValidity, CodeArg: "1", Text: "UIDs valid"},
			want: "OK [UIDVALIDITY 1] UIDs valid",
		},
		{
			name: "code with no arg",
			resp: StatusResponse{Type: StatusOK, Code: CodeReadOnly},
			want: "OK [READ-ONLY]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
