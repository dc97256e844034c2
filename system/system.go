// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package system wraps the external management tools and syscalls the
// cleanup flows depend on.
package system

import (
	"context"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Runner executes an external management tool and returns its combined
// output. The exit status of the tool gates the calling step.
type Runner interface {
	Run(ctx context.Context, argv ...string) ([]byte, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, argv ...string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}

// IsRoot reports whether the process runs with root privileges.
func IsRoot() bool {
	return unix.Geteuid() == 0
}

// Reboot restarts the machine immediately. Filesystems are synced first.
func Reboot() error {
	unix.Sync()
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return fmt.Errorf("cannot reboot: %w", err)
	}
	return nil
}
