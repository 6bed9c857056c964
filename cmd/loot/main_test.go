package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// baseArgs points config and logging at files that do not exist so the
// defaults apply.
func baseArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOOT_DB_PATH", filepath.Join(dir, "loot.db"))
	args := []string{
		"-config", filepath.Join(dir, "missing.yaml"),
		"-logging", filepath.Join(dir, "missing-logging.yaml"),
	}
	return append(args, extra...)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loot.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunShow(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nShield,5\n")

	var out bytes.Buffer
	if err := run("show", baseArgs(t, "-source", csv), &out); err != nil {
		t.Fatalf("run show: %v", err)
	}

	want := "2 records in loot table, total drop chance: 71.0%\n" +
		"    Sword, 10 tries, drops 25.9%\n" +
		"   Shield,  5 tries, drops 45.1%\n\n"
	if out.String() != want {
		t.Errorf("show output = %q, want %q", out.String(), want)
	}
}

func TestRunDraw(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nShield,5\n")

	var out bytes.Buffer
	if err := run("draw", baseArgs(t, "-source", csv, "-n", "7", "-seed", "12345"), &out); err != nil {
		t.Fatalf("run draw: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Getting 7 loot drops\n") {
		t.Errorf("draw output missing header: %q", output)
	}
	drops := strings.Split(strings.TrimSpace(output[strings.Index(output, "Getting"):]), "\n")[1:]
	if len(drops) != 7 {
		t.Fatalf("got %d drops, want 7: %q", len(drops), drops)
	}
	for _, d := range drops {
		if !strings.Contains(d, "Sword") && !strings.Contains(d, "Shield") {
			t.Errorf("unexpected drop %q", d)
		}
	}
}

func TestRunDrawSeedIsDeterministic(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nShield,5\nGem,40\n")

	var a, b bytes.Buffer
	if err := run("draw", baseArgs(t, "-source", csv, "-seed", "7"), &a); err != nil {
		t.Fatal(err)
	}
	if err := run("draw", baseArgs(t, "-source", csv, "-seed", "7"), &b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same seed produced different draws")
	}
}

func TestRunShowMissingSource(t *testing.T) {
	var out bytes.Buffer
	err := run("show", baseArgs(t, "-source", filepath.Join(t.TempDir(), "nope.csv")), &out)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("error = %v, want source unavailable", err)
	}
}

func TestRunShowBadLine(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nPotion,abc\n")

	var out bytes.Buffer
	if err := run("show", baseArgs(t, "-source", csv), &out); err == nil {
		t.Fatal("expected fail_fast error")
	}

	out.Reset()
	if err := run("show", baseArgs(t, "-source", csv, "-policy", "collect"), &out); err != nil {
		t.Fatalf("collect policy should keep going: %v", err)
	}
	if !strings.HasPrefix(out.String(), "1 records in loot table") {
		t.Errorf("show output = %q, want 1 record", out.String())
	}
}

func TestRunInvalidConfidence(t *testing.T) {
	csv := writeCSV(t, "Sword,10\n")

	var out bytes.Buffer
	err := run("show", baseArgs(t, "-source", csv, "-confidence", "1.5"), &out)
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error = %v, want invalid config", err)
	}
}

func TestRunSim(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nShield,5\n")

	var out bytes.Buffer
	if err := run("sim", baseArgs(t, "-source", csv, "-n", "5000", "-seed", "12345"), &out); err != nil {
		t.Fatalf("run sim: %v", err)
	}

	output := out.String()
	for _, want := range []string{"=== Loot Simulation ===", "Draws: 5000", "Sword", "Shield"} {
		if !strings.Contains(output, want) {
			t.Errorf("sim output missing %q: %s", want, output)
		}
	}
	// Shield takes its own interval plus the fallback, so it is listed first
	if strings.Index(output, "Shield") > strings.Index(output, "Sword") {
		t.Errorf("expected Shield before Sword: %s", output)
	}
}

func TestRunSimEmptyTable(t *testing.T) {
	csv := writeCSV(t, "\n\n")

	var out bytes.Buffer
	if err := run("sim", baseArgs(t, "-source", csv, "-n", "10"), &out); err != nil {
		t.Fatalf("run sim: %v", err)
	}
	if !strings.Contains(out.String(), "[empty dr") {
		t.Errorf("sim output missing empty drop row: %s", out.String())
	}
}

func TestRunImportAndDrawFromDatabase(t *testing.T) {
	csv := writeCSV(t, "Sword,10\nShield,5\n")
	args := baseArgs(t)

	var out bytes.Buffer
	if err := run("import", append(args, "-source", csv, "-name", "dragon"), &out); err != nil {
		t.Fatalf("run import: %v", err)
	}
	if !strings.Contains(out.String(), `Imported 2 records into loot table "dragon"`) {
		t.Errorf("import output = %q", out.String())
	}

	out.Reset()
	if err := run("tables", args, &out); err != nil {
		t.Fatalf("run tables: %v", err)
	}
	if strings.TrimSpace(out.String()) != "dragon" {
		t.Errorf("tables output = %q, want dragon", out.String())
	}

	out.Reset()
	if err := run("show", append(args, "-table", "dragon"), &out); err != nil {
		t.Fatalf("run show -table: %v", err)
	}
	if !strings.HasPrefix(out.String(), "2 records in loot table") {
		t.Errorf("show output = %q", out.String())
	}
}

func TestRunImportRefusesEmptyTable(t *testing.T) {
	args := baseArgs(t)
	good := writeCSV(t, "Sword,10\nShield,5\n")
	bad := writeCSV(t, "Sword\nShield,none\n")

	var out bytes.Buffer
	if err := run("import", append(args, "-source", good, "-name", "dragon"), &out); err != nil {
		t.Fatalf("run import: %v", err)
	}

	out.Reset()
	err := run("import", append(args, "-source", bad, "-name", "dragon", "-policy", "collect"), &out)
	if err == nil {
		t.Fatal("expected import of a table without records to fail")
	}
	if strings.Contains(out.String(), "Imported") {
		t.Errorf("import reported success: %q", out.String())
	}

	out.Reset()
	if err := run("show", append(args, "-table", "dragon"), &out); err != nil {
		t.Fatalf("run show -table: %v", err)
	}
	if !strings.HasPrefix(out.String(), "2 records in loot table") {
		t.Errorf("stored table was replaced: %q", out.String())
	}
}

func TestRunImportRequiresName(t *testing.T) {
	csv := writeCSV(t, "Sword,10\n")

	var out bytes.Buffer
	if err := run("import", baseArgs(t, "-source", csv), &out); err == nil {
		t.Fatal("expected error without -name")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run("explode", nil, &out); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
