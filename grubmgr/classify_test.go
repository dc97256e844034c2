// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package grubmgr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		title string
		want  Classification
	}{
		{"Rocky Linux (snapshot1)", Classification{KindSnapshot, "snapshot1"}},
		{"Rocky Linux 9.4 (snap-20240501)", Classification{KindSnapshot, "snap-20240501"}},
		{"Red Hat Enterprise Linux (snap1.2)", Classification{KindSnapshot, "snap1.2"}},
		{"CentOS Stream (snapshot9)", Classification{KindSnapshot, "snapshot9"}},
		{"Rocky Linux", Classification{Kind: KindUnknown}},
		{"Windows Boot Manager", Classification{Kind: KindForeignOS}},
		{"Windows 11 (on /dev/nvme0n1p1)", Classification{Kind: KindForeignOS}},
		{"Fedora Linux 40", Classification{Kind: KindUnknown}},
		{"", Classification{Kind: KindUnknown}},
	}

	for _, tc := range tests {
		if got := Classify(tc.title); got != tc.want {
			t.Errorf("%q: expected %+v, got %+v", tc.title, tc.want, got)
		}
	}
}
