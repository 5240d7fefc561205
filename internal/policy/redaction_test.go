package policy

import (
	"strings"
	"testing"
)

func TestRedactPII(t *testing.T) {
	input := "Email me at sam@example.com or +1 (555) 123-9876 and use 4242 4242 4242 4242. ID 123-45-6789."
	out, changed := RedactPII(input)
	if !changed {
		t.Fatalf("changed = false, want true")
	}
	for _, marker := range []string{"[REDACTED_EMAIL]", "[REDACTED_PHONE]", "[REDACTED_CARD]", "[REDACTED_ID]"} {
		if !strings.Contains(out, marker) {
			t.Fatalf("output missing marker %q: %q", marker, out)
		}
	}
}

func TestRedactPIILeavesPlainTextAlone(t *testing.T) {
	out, changed := RedactPII("what diseases are screened")
	if changed || out != "what diseases are screened" {
		t.Fatalf("RedactPII() = %q, %v", out, changed)
	}
}

func TestPreview(t *testing.T) {
	got := Preview("  my email is\n a@b.io  ", 0)
	if got != "my email is [REDACTED_EMAIL]" {
		t.Fatalf("Preview() = %q", got)
	}

	long := Preview(strings.Repeat("é", 20), 5)
	if long != "ééééé…" {
		t.Fatalf("Preview() truncated = %q", long)
	}
}
