// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package efivars

import "fmt"

// BootVariableName formats a boot number as its variable name, for
// example 4 becomes Boot0004.
func BootVariableName(num int) string {
	return fmt.Sprintf("Boot%04X", num)
}

// ParseBootVariableName extracts the boot number from a Boot#### variable
// name. The second return value is false for any other variable name,
// including the BootOrder, BootCurrent and BootNext bookkeeping variables.
func ParseBootVariableName(name string) (int, bool) {
	var num int
	if parsed, err := fmt.Sscanf(name, "Boot%04X", &num); len(name) != 8 || parsed != 1 || err != nil {
		return 0, false
	}
	return num, true
}
