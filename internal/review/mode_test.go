package review

import "testing"

func TestParseModeAcceptsKnownRejectsUnknown(t *testing.T) {
	for _, m := range Modes() {
		parsed, err := ParseMode(string(m))
		if err != nil || parsed != m {
			t.Fatalf("parse %q: %v", m, err)
		}
	}
	if _, err := ParseMode("cramming"); err == nil {
		t.Fatalf("unknown mode must not parse")
	}
}

func TestLogCategoryMapping(t *testing.T) {
	cases := map[Mode]string{
		ModeCategory:   "general",
		ModeTurnReview: "general",
		ModeNew:        "new",
		ModeTurnNew:    "new",
		ModeRecent:     "recent",
		ModeTurnRecent: "recent",
		ModeFavorite:   "favorite",
		ModeWrong:      "wrong",
	}
	for mode, want := range cases {
		got, ok := mode.LogCategory()
		if !ok || got != want {
			t.Fatalf("%s: expected %q, got %q ok=%v", mode, want, got, ok)
		}
	}
	if _, ok := ModePending.LogCategory(); ok {
		t.Fatalf("pending mode must not log")
	}
}

func TestParseOrder(t *testing.T) {
	if _, err := ParseOrder("grouped_random"); err != nil {
		t.Fatalf("grouped_random should parse: %v", err)
	}
	if _, err := ParseOrder("chaotic"); err == nil {
		t.Fatalf("unknown order must not parse")
	}
}
