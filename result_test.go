package pixelcopy

import "testing"

func TestCopyResultString(t *testing.T) {
	tests := []struct {
		r    CopyResult
		want string
	}{
		{Success, "Success"},
		{UnknownError, "UnknownError"},
		{Timeout, "Timeout"},
		{SourceEmpty, "SourceEmpty"},
		{SourceInvalid, "SourceInvalid"},
		{DestinationInvalid, "DestinationInvalid"},
		{CopyResult(42), "CopyResult(?)"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("CopyResult(%d).String() = %q, want %q", int(tt.r), got, tt.want)
		}
	}
}
