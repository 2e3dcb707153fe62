package extract

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q, want unchanged", got)
	}
	long := strings.Repeat("x", 20)
	want := strings.Repeat("x", 10) + "...(truncated)"
	if got := truncate(long, 10); got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
}
