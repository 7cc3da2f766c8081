package cli

import (
	"testing"
)

func TestNewRootCommandSubcommands(t *testing.T) {
	root := NewRootCommand()

	want := map[string]bool{"convert": false, "build": false, "strip": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	outputDir = "override-out"
	workers = 7
	configPath = ""
	defer func() {
		outputDir = ""
		workers = 0
	}()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.OutputDir != "override-out" || cfg.Workers != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
}
