// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package grubmgr

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"

	version "github.com/knqyf263/go-deb-version"

	"github.com/oskit/bootclean/cleanup"
)

// The version comparator wants a leading digit; snapshot names usually
// carry a "snap" style prefix before the version or date part.
var leadingNonDigits = regexp.MustCompile(`^[^0-9]*`)

func versionish(name string) string {
	return leadingNonDigits.ReplaceAllString(name, "")
}

// Prune removes all but the newest keep snapshot-backed entries, then
// regenerates the config. Entries are ordered by the version-like part of
// their snapshot name, newest first; names that do not parse sort oldest.
// The active entry is always retained. Removal is best effort per entry,
// progress goes to out.
func (m *Manager) Prune(ctx context.Context, keep int, out io.Writer) error {
	if keep < 0 {
		keep = 0
	}
	if err := m.Prepare(ctx); err != nil {
		return err
	}
	entries, err := m.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return cleanup.ErrNoEntries
	}

	type candidate struct {
		entry  cleanup.Entry
		ver    version.Version
		hasVer bool
	}
	var candidates []candidate
	for _, e := range entries {
		if e.Active {
			continue
		}
		c := Classify(e.Description)
		if c.Kind != KindSnapshot {
			continue
		}
		cand := candidate{entry: e}
		if v, err := version.NewVersion(versionish(c.Snapshot)); err == nil {
			cand.ver, cand.hasVer = v, true
		}
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.hasVer && b.hasVer:
			return a.ver.GreaterThan(b.ver)
		case a.hasVer:
			return true
		}
		return false
	})

	if len(candidates) <= keep {
		fmt.Fprintf(out, "Nothing to prune, %d snapshot entries present.\n", len(candidates))
		return nil
	}

	for _, cand := range candidates[keep:] {
		res, err := m.Remove(ctx, cand.entry)
		if err != nil {
			fmt.Fprintf(out, "cannot remove %s: %v\n", cand.entry.Description, err)
			continue
		}
		fmt.Fprintf(out, "removed %s (%s)\n", cand.entry.Description, res.Detail)
	}
	return m.Finalize(ctx)
}
