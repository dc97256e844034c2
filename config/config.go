// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package config loads the optional bootclean configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given on the command line.
const DefaultPath = "/etc/bootclean.yaml"

// Config carries the tunables of the GRUB cleanup variant. Every field is
// optional; absent fields keep their compiled-in default.
type Config struct {
	GrubConfigPath  string   `yaml:"grub_config_path"`
	GrubEnvPath     string   `yaml:"grub_env_path"`
	MkconfigCommand []string `yaml:"mkconfig_command"`
	SnapshotCommand []string `yaml:"snapshot_command"`
	VolumeGroup     string   `yaml:"volume_group"`
	PruneKeep       int      `yaml:"prune_keep"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		GrubConfigPath:  "/boot/grub2/grub.cfg",
		GrubEnvPath:     "/boot/grub2/grubenv",
		MkconfigCommand: []string{"grub2-mkconfig", "-o"},
		SnapshotCommand: []string{"lvremove", "-y"},
		VolumeGroup:     "rl",
		PruneKeep:       2,
	}
}

// Load reads the file at path, layering it over the defaults. A missing
// file is not an error and yields the defaults unchanged.
func Load(fs afero.Fs, path string) (Config, error) {
	c := Default()
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return c, nil
}
