package compositor

import "testing"

func TestExecSpawnerRejectsEmptyArgv(t *testing.T) {
	if err := (ExecSpawner{}).Spawn(nil); err == nil {
		t.Fatal("expected an error for an empty argv")
	}
}

func TestExecSpawnerStartsRealProcess(t *testing.T) {
	if err := (ExecSpawner{}).Spawn([]string{"true"}); err != nil {
		t.Fatalf("Spawn(true): %v", err)
	}
}

func TestWithDisplayReplacesExistingEntry(t *testing.T) {
	got := withDisplay([]string{"FOO=bar", "DISPLAY=:0", "BAZ=qux"}, ":1")
	want := map[string]bool{"FOO=bar": true, "BAZ=qux": true, "DISPLAY=:1": true}
	if len(got) != len(want) {
		t.Fatalf("withDisplay = %v, want 3 entries", got)
	}
	for _, kv := range got {
		if !want[kv] {
			t.Errorf("unexpected entry %q", kv)
		}
	}
}

func TestWithDisplayAppendsWhenAbsent(t *testing.T) {
	got := withDisplay([]string{"FOO=bar"}, ":1")
	found := false
	for _, kv := range got {
		if kv == "DISPLAY=:1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("withDisplay = %v, want a DISPLAY=:1 entry", got)
	}
}
