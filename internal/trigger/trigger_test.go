package trigger

import "testing"

func TestMatch(t *testing.T) {
	set := New("vim", "nvim")

	tests := []struct {
		command string
		want    bool
	}{
		{"vim", true},
		{"nvim", true},
		{"  vim  ", true},
		{"/usr/bin/vim file.txt", true},
		{"/usr/local/bin/nvim -u NONE", true},
		{"vim file.txt", true},
		{"emacs", false},
		{"vimdiff", false},
		{"/usr/bin/vimdiff a b", false},
		{"N/A", false},
		{"  N/A  ", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := set.Match(tt.command); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestMatchSentinelNeverTriggers(t *testing.T) {
	// Even a set that lists the sentinel itself must not match it
	set := New("N/A", "vim")
	if set.Match("N/A") {
		t.Error("sentinel command must never match")
	}
}

func TestMatchFullInvocation(t *testing.T) {
	// An entry containing arguments matches the whole command line
	set := New("git log")
	if !set.Match("git log") {
		t.Error("full invocation should match verbatim entry")
	}
	if set.Match("git") {
		t.Error("bare executable should not match multi-word entry")
	}
}

func TestParse(t *testing.T) {
	set := Parse("vim| nvim |fzf")
	want := []string{"vim", "nvim", "fzf"}

	got := set.Strings()
	if len(got) != len(want) {
		t.Fatalf("Parse produced %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseDropsEmptyEntries(t *testing.T) {
	set := Parse("vim||  |nvim")
	if got := len(set.Strings()); got != 2 {
		t.Errorf("Parse kept %d entries, want 2", got)
	}

	if !Parse("").Empty() {
		t.Error("Parse of empty spec should yield an empty set")
	}
}

func TestBasename(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"/usr/bin/vim file.txt", "vim"},
		{"vim", "vim"},
		{"nvim -u NONE", "nvim"},
		{"/deep/path/to/exe", "exe"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Basename(tt.command); got != tt.want {
			t.Errorf("Basename(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestSetString(t *testing.T) {
	if got := New("vim", "nvim").String(); got != "vim|nvim" {
		t.Errorf("String() = %q, want %q", got, "vim|nvim")
	}
}
