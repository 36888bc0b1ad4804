package imap

import "testing"

func TestStoreAction_String(t *testing.T) {
	tests := []struct {
		action StoreAction
		want   string
	}{
		{StoreFlagsSet, "FLAGS"},
		{StoreFlagsAdd, "+FLAGS"},
		{StoreFlagsDel, "-FLAGS"},
		{StoreAction(99), "FLAGS"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.action.String(); got != tt.want {
				t.Errorf("StoreAction(%d).String() = %q, want %q", int(tt.action), got, tt.want)
			}
		})
	}
}
