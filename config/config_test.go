// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), DefaultPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	yaml := "volume_group: vg00\nsnapshot_command: [snapper, delete]\n"
	if err := afero.WriteFile(fs, DefaultPath, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs, DefaultPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.VolumeGroup != "vg00" {
		t.Errorf("expected vg00, got %q", cfg.VolumeGroup)
	}
	if !reflect.DeepEqual(cfg.SnapshotCommand, []string{"snapper", "delete"}) {
		t.Errorf("unexpected snapshot command: %v", cfg.SnapshotCommand)
	}
	if cfg.GrubConfigPath != Default().GrubConfigPath {
		t.Errorf("expected default config path, got %q", cfg.GrubConfigPath)
	}
	if cfg.PruneKeep != Default().PruneKeep {
		t.Errorf("expected default prune_keep, got %d", cfg.PruneKeep)
	}
}

func TestLoadBadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, DefaultPath, []byte(":\n\t-"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fs, DefaultPath); err == nil {
		t.Fatal("expected a parse error")
	}
}
