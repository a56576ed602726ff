package tmuxhost

import (
	"testing"

	"github.com/abdullathedruid/autolock/internal/host"
)

func TestParseWindows(t *testing.T) {
	tabs := parseWindows("0\t0\tbuild\n1\t1\teditor\n2\t0\tlogs")
	if len(tabs) != 3 {
		t.Fatalf("len(tabs) = %d, want 3", len(tabs))
	}
	want := host.Tab{Position: 1, Focused: true, Name: "editor"}
	if tabs[1] != want {
		t.Errorf("tabs[1] = %+v, want %+v", tabs[1], want)
	}
}

func TestParseWindowsSkipsMalformedLines(t *testing.T) {
	tabs := parseWindows("garbage\n3\t1\tok")
	if len(tabs) != 1 {
		t.Fatalf("len(tabs) = %d, want 1", len(tabs))
	}
	if tabs[0].Position != 3 {
		t.Errorf("Position = %d, want 3", tabs[0].Position)
	}
}

func TestParseWindowsEmpty(t *testing.T) {
	if tabs := parseWindows(""); len(tabs) != 0 {
		t.Errorf("len(tabs) = %d, want 0", len(tabs))
	}
}

func TestParsePanes(t *testing.T) {
	manifest := parsePanes("0\t%0\t1\n1\t%1\t0\n1\t%2\t1")
	if len(manifest) != 2 {
		t.Fatalf("len(manifest) = %d, want 2", len(manifest))
	}
	if len(manifest[1]) != 2 {
		t.Fatalf("len(manifest[1]) = %d, want 2", len(manifest[1]))
	}
	pane, ok := manifest.Focused(1)
	if !ok {
		t.Fatal("no focused pane in window 1")
	}
	if pane.ID != "%2" {
		t.Errorf("focused pane = %q, want %q", pane.ID, "%2")
	}
}

func TestParseClients(t *testing.T) {
	out := "0\tfocused\t100\tvim\n" +
		"1\t\t200\t\n" +
		"0\t\t50\tzsh"
	clients := parseClients(out)
	if len(clients) != 2 {
		t.Fatalf("len(clients) = %d, want 2", len(clients))
	}
	if !clients[0].Current || clients[0].RunningCommand != "vim" {
		t.Errorf("clients[0] = %+v, want current vim", clients[0])
	}
	if clients[1].Current {
		t.Errorf("clients[1] = %+v, want not current", clients[1])
	}
}

func TestParseClientsActivityFallback(t *testing.T) {
	out := "0\t\t100\tzsh\n" +
		"0\t\t300\tvim\n" +
		"0\t\t200\tssh"
	clients := parseClients(out)
	if len(clients) != 3 {
		t.Fatalf("len(clients) = %d, want 3", len(clients))
	}
	for i, c := range clients {
		if c.Current != (i == 1) {
			t.Errorf("clients[%d].Current = %v, want %v", i, c.Current, i == 1)
		}
	}
}

func TestParseClientsEmptyCommandIsUnavailable(t *testing.T) {
	clients := parseClients("0\tfocused\t1\t")
	if len(clients) != 1 {
		t.Fatalf("len(clients) = %d, want 1", len(clients))
	}
	if clients[0].RunningCommand != host.CommandUnavailable {
		t.Errorf("RunningCommand = %q, want %q", clients[0].RunningCommand, host.CommandUnavailable)
	}
}

func TestParseSessionInfo(t *testing.T) {
	id, name, ok := parseSessionInfo("$5\twork\n")
	if !ok {
		t.Fatal("parseSessionInfo returned !ok")
	}
	if id != "$5" || name != "work" {
		t.Errorf("got (%q, %q), want ($5, work)", id, name)
	}
}

func TestParseSessionInfoRejectsGarbage(t *testing.T) {
	if _, _, ok := parseSessionInfo("no tabs here"); ok {
		t.Error("parseSessionInfo accepted a line without separator")
	}
}
