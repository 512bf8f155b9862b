package deps

import "testing"

func TestCheckBinariesResolvesAvailable(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "shell", Command: "sh", Description: "posix shell"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}
	status := statuses[0]
	if !status.Available {
		t.Fatalf("expected sh to be available: %+v", status)
	}
	if status.Command == "sh" {
		t.Errorf("expected resolved path, got bare command %q", status.Command)
	}
}

func TestCheckBinariesMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "ghost", Command: "definitely-not-a-real-binary-xyz"},
	})
	if statuses[0].Available {
		t.Fatal("expected missing binary to be reported unavailable")
	}
	if statuses[0].Detail == "" {
		t.Error("expected detail message for missing binary")
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := CheckBinaries([]Requirement{{Name: "blank"}})
	if statuses[0].Available {
		t.Fatal("expected unavailable status for empty command")
	}
	if statuses[0].Detail != "command not configured" {
		t.Errorf("unexpected detail: %q", statuses[0].Detail)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: true},
		{Name: "b", Available: false},
		{Name: "c", Available: false, Optional: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "b" {
		t.Fatalf("expected [b], got %v", missing)
	}
}

func TestFreeSpace(t *testing.T) {
	free, err := FreeSpace(t.TempDir())
	if err != nil {
		t.Fatalf("free space: %v", err)
	}
	if free == 0 {
		t.Error("expected non-zero free space on temp filesystem")
	}
}
