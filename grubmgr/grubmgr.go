// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package grubmgr manages the menu entries of a generated GRUB
// configuration for the GRUB cleanup variant.
package grubmgr

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/oskit/bootclean/cleanup"
	"github.com/oskit/bootclean/system"
)

// Options configure a Manager. Zero fields fall back to the Rocky Linux
// layout the tool grew up on.
type Options struct {
	ConfigPath  string   // generated grub config
	EnvPath     string   // grubenv holding the saved default entry
	MkconfigCmd []string // regeneration command; the config path is appended
	SnapshotCmd []string // snapshot removal command; VG/LV is appended
	VolumeGroup string   // volume group holding the snapshot volumes
}

func (o *Options) withDefaults() {
	if o.ConfigPath == "" {
		o.ConfigPath = "/boot/grub2/grub.cfg"
	}
	if o.EnvPath == "" {
		o.EnvPath = "/boot/grub2/grubenv"
	}
	if len(o.MkconfigCmd) == 0 {
		o.MkconfigCmd = []string{"grub2-mkconfig", "-o"}
	}
	if len(o.SnapshotCmd) == 0 {
		o.SnapshotCmd = []string{"lvremove", "-y"}
	}
	if o.VolumeGroup == "" {
		o.VolumeGroup = "rl"
	}
}

// Manager implements cleanup.Manager over a grub.cfg file and the
// external snapshot and mkconfig tools.
type Manager struct {
	fs         afero.Fs
	run        system.Runner
	opts       Options
	backupPath string
}

// New returns a Manager over the given filesystem and command runner.
func New(fs afero.Fs, runner system.Runner, opts Options) *Manager {
	opts.withDefaults()
	return &Manager{fs: fs, run: runner, opts: opts}
}

// Prepare implements cleanup.Manager by backing up the config file.
// A backup failure is fatal; nothing may be mutated without one.
func (m *Manager) Prepare(ctx context.Context) error {
	_, err := m.Backup()
	return err
}

// Backup writes a timestamped copy of the config file next to the
// original and returns its path. The copy is never pruned or restored
// automatically.
func (m *Manager) Backup() (string, error) {
	data, err := afero.ReadFile(m.fs, m.opts.ConfigPath)
	if err != nil {
		return "", fmt.Errorf("cannot back up %s: %w", m.opts.ConfigPath, err)
	}
	backup := fmt.Sprintf("%s.bak-%s", m.opts.ConfigPath, time.Now().Format("20060102-150405"))
	if err := afero.WriteFile(m.fs, backup, data, 0600); err != nil {
		return "", fmt.Errorf("cannot write backup %s: %w", backup, err)
	}
	m.backupPath = backup
	return backup, nil
}

// BackupPath returns the path of the backup written by Prepare, or ""
// before Prepare ran.
func (m *Manager) BackupPath() string { return m.backupPath }

var menuEntryRe = regexp.MustCompile(`(?m)^menuentry ['"]([^'"]+)['"]`)

// Entries parses the menu entry titles out of the generated config, in
// declaration order. The saved default from grubenv marks the active
// entry; with no saved default GRUB boots the first entry.
func (m *Manager) Entries(ctx context.Context) ([]cleanup.Entry, error) {
	data, err := afero.ReadFile(m.fs, m.opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", m.opts.ConfigPath, err)
	}
	saved := m.savedEntry()

	var out []cleanup.Entry
	for i, match := range menuEntryRe.FindAllStringSubmatch(string(data), -1) {
		title := match[1]
		out = append(out, cleanup.Entry{
			Index:       i + 1,
			ID:          title,
			Description: title,
			Active:      title == saved || (saved == "" && i == 0),
		})
	}
	return out, nil
}

func (m *Manager) savedEntry() string {
	data, err := afero.ReadFile(m.fs, m.opts.EnvPath)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "saved_entry="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Remove handles one selected entry according to its classification.
// Snapshot-backed entries have their snapshot volume deleted; the menu
// line itself disappears when the config is regenerated. Foreign-OS
// entries are selectable but intentionally a no-op. Unknown entries are
// skipped.
func (m *Manager) Remove(ctx context.Context, e cleanup.Entry) (cleanup.Result, error) {
	if e.Active {
		return cleanup.Result{}, fmt.Errorf("refusing to remove the currently booted entry")
	}
	c := Classify(e.Description)
	switch c.Kind {
	case KindSnapshot:
		lv := m.opts.VolumeGroup + "/" + c.Snapshot
		argv := append(append([]string{}, m.opts.SnapshotCmd...), lv)
		if out, err := m.run.Run(ctx, argv...); err != nil {
			return cleanup.Result{}, fmt.Errorf("cannot delete snapshot %s: %v%s", lv, err, outputSuffix(out))
		}
		return cleanup.Result{Outcome: cleanup.Removed, Detail: "snapshot " + lv + " deleted"}, nil
	case KindForeignOS:
		return cleanup.Result{Outcome: cleanup.SkippedForeign}, nil
	}
	return cleanup.Result{Outcome: cleanup.SkippedUnknown}, nil
}

// Finalize implements cleanup.Manager by regenerating the config file.
func (m *Manager) Finalize(ctx context.Context) error {
	return m.Regenerate(ctx)
}

// Regenerate rebuilds the config file in place. Failure is fatal for the
// whole operation.
func (m *Manager) Regenerate(ctx context.Context) error {
	argv := append(append([]string{}, m.opts.MkconfigCmd...), m.opts.ConfigPath)
	if out, err := m.run.Run(ctx, argv...); err != nil {
		return fmt.Errorf("cannot regenerate %s: %v%s", m.opts.ConfigPath, err, outputSuffix(out))
	}
	return nil
}

func outputSuffix(out []byte) string {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return ""
	}
	return ": " + trimmed
}
