package generation

import (
	"strings"
	"testing"
)

func TestDeriveTitleFirstSentence(t *testing.T) {
	if got := DeriveTitle("你好世界。今天天气很好"); got != "你好世界" {
		t.Fatalf("DeriveTitle = %q, want %q", got, "你好世界")
	}
}

func TestDeriveTitleTerminalMarks(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"第一句！第二句", "第一句"},
		{"第一句？第二句", "第一句"},
		{"First sentence. Second sentence", "First sentence"},
		{"Really! More", "Really"},
		{"What? More", "What"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.text); got != tc.want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestDeriveTitleTruncatesLongText(t *testing.T) {
	text := strings.Repeat("字", 60)
	got := DeriveTitle(text)
	want := strings.Repeat("字", 50) + "..."
	if got != want {
		t.Fatalf("DeriveTitle = %q, want %q", got, want)
	}
}

func TestDeriveTitleShortTextWithoutMarks(t *testing.T) {
	if got := DeriveTitle("短文本"); got != "短文本" {
		t.Fatalf("DeriveTitle = %q, want %q", got, "短文本")
	}
}

func TestDeriveTitleEmptyFallsBack(t *testing.T) {
	if got := DeriveTitle("   "); got != FallbackTitle {
		t.Fatalf("DeriveTitle = %q, want fallback", got)
	}
	if got := DeriveTitle("。"); got != FallbackTitle {
		t.Fatalf("DeriveTitle(%q) = %q, want fallback", "。", got)
	}
}

func TestPrepareText(t *testing.T) {
	if got := PrepareText("  你好\r\n世界  "); got != "你好\n世界" {
		t.Fatalf("PrepareText = %q", got)
	}
	if got := PrepareText("\t \n"); got != "" {
		t.Fatalf("PrepareText of whitespace = %q, want empty", got)
	}
}
