package cli

import (
	"strings"
	"testing"
)

func TestSwatch(t *testing.T) {
	for _, color := range []string{"#3b82f6", "", "blue"} {
		if got := swatch(color); !strings.Contains(got, "●") {
			t.Errorf("swatch(%q) = %q, want a dot", color, got)
		}
	}
}
