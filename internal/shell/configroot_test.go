package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigRootUsesXDGConfigHomeWhenSet(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := configRoot("noko")
	want := filepath.Join(dir, "noko")
	if got != want {
		t.Errorf("configRoot = %q, want %q", got, want)
	}
}

func TestConfigRootFallsBackToHomeDotConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "does-not-exist"))
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := configRoot("noko")
	want := filepath.Join(home, ".config", "noko")
	if got != want {
		t.Errorf("configRoot = %q, want %q", got, want)
	}
}

func TestExistsDistinguishesMissingFromPresent(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if ok, err := exists(present); err != nil || !ok {
		t.Fatalf("exists(present) = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := exists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("exists(missing) = (%v, %v), want (false, nil)", ok, err)
	}
}
