// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package cleanup drives an interactive boot-entry deletion session on
// top of a platform-specific entry manager.
package cleanup

import "context"

// Entry is one boot entry as displayed to the operator. Index values are
// assigned at enumeration time and carry no meaning across runs.
type Entry struct {
	Index       int    // 1-based display ordinal
	ID          string // platform-native identifier: Boot#### name or menuentry title
	Description string
	Active      bool // the entry the system currently booted from
}

// Outcome of a removal attempt.
type Outcome int

const (
	// Removed means the platform primitive deleted the entry.
	Removed Outcome = iota
	// SkippedForeign marks foreign-OS entries that are deliberately left
	// alone: os-prober recreates them on every config regeneration, so
	// deleting the menu line alone would not stick.
	SkippedForeign
	// SkippedUnknown marks entries the classifier does not recognize.
	SkippedUnknown
)

// Result describes what Remove did for one entry.
type Result struct {
	Outcome Outcome
	Detail  string // extra context for the transcript, may be empty
}

// Manager is the platform-specific side of a cleanup session.
type Manager interface {
	// Prepare runs before anything destructive. The GRUB manager backs up
	// the config file here; the EFI manager has nothing to do.
	Prepare(ctx context.Context) error
	// Entries enumerates the current boot entries in display order.
	Entries(ctx context.Context) ([]Entry, error)
	// Remove deletes one entry. Implementations must refuse the active
	// entry even if asked.
	Remove(ctx context.Context, e Entry) (Result, error)
	// Finalize commits deferred work after the removal loop: the EFI
	// manager writes the updated BootOrder, the GRUB manager regenerates
	// the config file. A Finalize error fails the whole run.
	Finalize(ctx context.Context) error
}
