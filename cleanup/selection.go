// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package cleanup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numericToken = regexp.MustCompile(`^[0-9]+$`)

// TokenError describes one rejected selection token.
type TokenError struct {
	Token  string
	Reason string
}

// ParseSelection parses a free-text index selection against an entry list
// of size n. Commas are normalized to whitespace before splitting.
// Rejected tokens (non-numeric or outside [1, n]) are reported but do not
// abort the parse, and duplicates are coalesced keeping first-occurrence
// order. An empty line yields an empty selection.
func ParseSelection(line string, n int) ([]int, []TokenError) {
	var selected []int
	var rejected []TokenError

	seen := make(map[int]bool)
	for _, tok := range strings.Fields(strings.ReplaceAll(line, ",", " ")) {
		if !numericToken.MatchString(tok) {
			rejected = append(rejected, TokenError{tok, "not a number"})
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			rejected = append(rejected, TokenError{tok, "not a number"})
			continue
		}
		if v < 1 || v > n {
			rejected = append(rejected, TokenError{tok, fmt.Sprintf("out of range 1-%d", n)})
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		selected = append(selected, v)
	}
	return selected, rejected
}
