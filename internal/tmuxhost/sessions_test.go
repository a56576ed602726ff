package tmuxhost

import "testing"

func TestParseSessionList(t *testing.T) {
	output := "main\t1\t3\nscratch\t0\t1\n"

	sessions := parseSessionList(output)
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].Name != "main" || !sessions[0].Attached || sessions[0].Windows != 3 {
		t.Errorf("sessions[0] = %+v, want main attached with 3 windows", sessions[0])
	}
	if sessions[1].Name != "scratch" || sessions[1].Attached {
		t.Errorf("sessions[1] = %+v, want scratch detached", sessions[1])
	}
}

func TestParseSessionListSkipsMalformedLines(t *testing.T) {
	output := "main\t1\t2\ngarbage\n\nother\t0\tx\n"

	sessions := parseSessionList(output)
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[1].Windows != 1 {
		t.Errorf("Windows = %d, want fallback 1 for unparsable count", sessions[1].Windows)
	}
}

func TestParseSessionListEmpty(t *testing.T) {
	if sessions := parseSessionList(""); sessions != nil {
		t.Errorf("parseSessionList(empty) = %v, want nil", sessions)
	}
}
