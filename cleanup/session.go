// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package cleanup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoEntries is returned when the platform reports no boot entries.
var ErrNoEntries = errors.New("no boot entries found")

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Session runs one prompt-driven cleanup over a Manager.
type Session struct {
	Manager     Manager
	In          io.Reader
	Out         io.Writer
	AssumeYes   bool         // skip the deletion confirmation
	OfferReboot bool         // prompt for a reboot after a successful run
	Reboot      func() error // invoked when the operator accepts the reboot prompt
}

// Run drives the session: enumerate, read a selection, confirm, remove
// each selected entry best-effort, then finalize. It returns nil for a
// benign no-op (empty selection, declined confirmation) and an error for
// precondition or finalization failures.
func (s *Session) Run(ctx context.Context) error {
	in := bufio.NewReader(s.In)

	if err := s.Manager.Prepare(ctx); err != nil {
		return err
	}

	entries, err := s.Manager.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return ErrNoEntries
	}
	s.printEntries(entries)

	fmt.Fprint(s.Out, "\nEntries to delete (e.g. 1,3): ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("cannot read selection: %w", err)
	}

	selected, rejected := ParseSelection(line, len(entries))
	for _, r := range rejected {
		fmt.Fprintln(s.Out, warnStyle.Render(fmt.Sprintf("ignoring %q: %s", r.Token, r.Reason)))
	}
	if len(selected) == 0 {
		fmt.Fprintln(s.Out, "Nothing selected.")
		return nil
	}

	if !s.AssumeYes {
		ok, err := s.confirm(in, fmt.Sprintf("Delete %d selected %s? [y/N]: ", len(selected), plural("entry", "entries", len(selected))))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.Out, "Aborted, nothing changed.")
			return nil
		}
	}

	removed := 0
	for _, idx := range selected {
		e := entries[idx-1]
		if e.Active {
			fmt.Fprintln(s.Out, warnStyle.Render(fmt.Sprintf("%d: %s is the currently booted entry, not removing", e.Index, e.Description)))
			continue
		}
		res, err := s.Manager.Remove(ctx, e)
		if err != nil {
			fmt.Fprintln(s.Out, errorStyle.Render(fmt.Sprintf("%d: cannot remove %s: %v", e.Index, e.Description, err)))
			continue
		}
		switch res.Outcome {
		case Removed:
			removed++
			msg := fmt.Sprintf("%d: removed %s", e.Index, e.Description)
			if res.Detail != "" {
				msg += " (" + res.Detail + ")"
			}
			fmt.Fprintln(s.Out, msg)
		case SkippedForeign:
			fmt.Fprintln(s.Out, warnStyle.Render(fmt.Sprintf("%d: %s is a foreign OS entry, left in place", e.Index, e.Description)))
		case SkippedUnknown:
			fmt.Fprintln(s.Out, warnStyle.Render(fmt.Sprintf("%d: %s is not recognized, skipped", e.Index, e.Description)))
		}
	}

	if err := s.Manager.Finalize(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Done, %d %s removed.\n", removed, plural("entry", "entries", removed))

	if s.OfferReboot && s.Reboot != nil {
		ok, err := s.confirm(in, "Reboot now? [y/N]: ")
		if err != nil {
			return err
		}
		if ok {
			return s.Reboot()
		}
	}
	return nil
}

func (s *Session) printEntries(entries []Entry) {
	fmt.Fprintln(s.Out, headerStyle.Render("Boot entries:"))
	for _, e := range entries {
		line := fmt.Sprintf("%3d  %-14s %s", e.Index, e.ID, e.Description)
		if e.Active {
			line = activeStyle.Render(line + "  (current)")
		}
		fmt.Fprintln(s.Out, line)
	}
}

func (s *Session) confirm(in *bufio.Reader, prompt string) (bool, error) {
	fmt.Fprint(s.Out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("cannot read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func plural(one, many string, n int) string {
	if n == 1 {
		return one
	}
	return many
}
