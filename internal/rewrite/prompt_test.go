package rewrite

import (
	"strings"
	"testing"
)

func TestBuildPromptEmbedsScoreAndText(t *testing.T) {
	prompt := BuildPrompt("Leveraging synergies going forward.", 87)

	if !strings.Contains(prompt, "87%") {
		t.Fatalf("expected prompt to contain the score, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Leveraging synergies going forward.") {
		t.Fatalf("expected prompt to contain the input text, got:\n%s", prompt)
	}
	if strings.Contains(prompt, "%s") || strings.Contains(prompt, "%d") {
		t.Fatalf("expected all placeholders to be rendered, got:\n%s", prompt)
	}
}

func TestAttachPrimer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"we just shipped it.", ReplyPrimer + " we just shipped it."},
		{" we just shipped it.", ReplyPrimer + " we just shipped it."},
		{ReplyPrimer + " already primed.", ReplyPrimer + " already primed."},
		{"", ReplyPrimer},
	}
	for _, tc := range cases {
		if got := attachPrimer(tc.in); got != tc.want {
			t.Fatalf("attachPrimer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
