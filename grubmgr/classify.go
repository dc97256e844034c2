// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package grubmgr

import (
	"regexp"
	"strings"
)

// Kind tags a menu entry classification.
type Kind int

const (
	// KindSnapshot is a snapshot-backed OS entry; the snapshot volume is
	// removable independently of the menu line.
	KindSnapshot Kind = iota
	// KindForeignOS is an other-OS entry found by os-prober; never
	// removed here, the prober would recreate it on regeneration.
	KindForeignOS
	// KindUnknown is anything the classifier does not recognize.
	KindUnknown
)

// Classification is the tagged result of classifying a menu entry title.
type Classification struct {
	Kind     Kind
	Snapshot string // logical volume name, set for KindSnapshot only
}

// Distribution entries carry the snapshot volume name in a trailing
// parenthesis, e.g. "Rocky Linux (snapshot1)".
var snapshotRe = regexp.MustCompile(`\(([^()]+)\)\s*$`)

// Classify maps a menu entry title to its handling. Dispatch is by title
// prefix, matching how the entries are generated.
func Classify(title string) Classification {
	switch {
	case strings.HasPrefix(title, "Rocky"),
		strings.HasPrefix(title, "Red Hat"),
		strings.HasPrefix(title, "CentOS"):
		if m := snapshotRe.FindStringSubmatch(title); m != nil {
			return Classification{Kind: KindSnapshot, Snapshot: m[1]}
		}
		return Classification{Kind: KindUnknown}
	case strings.HasPrefix(title, "Windows"):
		return Classification{Kind: KindForeignOS}
	}
	return Classification{Kind: KindUnknown}
}
