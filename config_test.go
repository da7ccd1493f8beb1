package packrattle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEngineOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("verbose: true\nmaxSteps: 5000\n"), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	opts, err := LoadEngineOptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.Verbose || opts.MaxSteps != 5000 {
		t.Errorf("LoadEngineOptions => %+v, want Verbose=true MaxSteps=5000", opts)
	}
}

func TestLoadEngineOptionsMissingFile(t *testing.T) {
	if _, err := LoadEngineOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestMaxStepsAbortsRunawayGrammar(t *testing.T) {
	defer SetMaxSteps(0)
	SetMaxSteps(10)

	g := Repeat(lit("a"), RepeatOptions{Min: 0, Max: -1})
	input := ""
	for i := 0; i < 1000; i++ {
		input += "a"
	}
	_, err := g.Execute(input)
	if err == nil {
		t.Fatal("expected the step ceiling to abort this parse")
	}
	if _, ok := err.(*GrammarDefectError); !ok {
		t.Errorf("err => %T, want *GrammarDefectError", err)
	}
}
