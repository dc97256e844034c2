// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package efibootmgr manages the boot device selection menu entries
// (Boot0000...BootFFFF) for the EFI cleanup variant.
package efibootmgr

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sort"

	efi "github.com/canonical/go-efilib"

	"github.com/oskit/bootclean/cleanup"
	"github.com/oskit/bootclean/efivars"
)

// BootEntryVariable defines a boot entry variable
type BootEntryVariable struct {
	BootNumber int                    // number of the Boot variable, for example, for Boot0004 this is 4
	Data       []byte                 // the data of the variable
	Attributes efi.VariableAttributes // any attributes set on the variable
	LoadOption efivars.LoadOption     // the data of the variable parsed as a load option, if it is a valid load option
}

// BootManager enumerates and deletes firmware boot entries. It implements
// cleanup.Manager.
type BootManager struct {
	vars           EFIVariables
	entries        map[int]BootEntryVariable // The Boot<number> variables
	bootOrder      []int                     // The BootOrder variable, parsed
	bootOrderAttrs efi.VariableAttributes    // The attributes of BootOrder variable
	bootCurrent    int                       // Boot number of BootCurrent, -1 when the firmware does not report it
	orderDirty     bool
}

// NewBootManagerFromSystem returns a new BootManager object, initialized
// with the system state.
func NewBootManagerFromSystem() (*BootManager, error) {
	return newBootManagerFromVariables(appEFIVars)
}

func newBootManagerFromVariables(vars EFIVariables) (*BootManager, error) {
	if !VariablesSupported(vars) {
		return nil, fmt.Errorf("EFI variables are not supported on this system")
	}
	bm := &BootManager{vars: vars, bootCurrent: -1}

	bootOrderBytes, bootOrderAttrs, err := vars.GetVariable(efi.GlobalVariable, "BootOrder")
	if err != nil {
		return nil, fmt.Errorf("cannot read BootOrder variable: %v", err)
	}
	bm.bootOrder = make([]int, len(bootOrderBytes)/2)
	bm.bootOrderAttrs = bootOrderAttrs
	for i := 0; i+1 < len(bootOrderBytes); i += 2 {
		bm.bootOrder[i/2] = int(binary.LittleEndian.Uint16(bootOrderBytes[i : i+2]))
	}

	// BootCurrent is volatile and only present when the firmware booted
	// through the boot manager; a missing variable means "unknown", not
	// an error.
	if cur, _, err := vars.GetVariable(efi.GlobalVariable, "BootCurrent"); err == nil && len(cur) == 2 {
		bm.bootCurrent = int(binary.LittleEndian.Uint16(cur))
	}

	bm.entries = make(map[int]BootEntryVariable)
	names, err := GetVariableNames(vars, efi.GlobalVariable)
	if err != nil {
		return nil, fmt.Errorf("cannot obtain list of global variables: %v", err)
	}
	for _, name := range names {
		// Skips the bookkeeping variables (BootOrder, BootCurrent, BootNext).
		num, ok := efivars.ParseBootVariableName(name)
		if !ok {
			continue
		}
		entry := BootEntryVariable{BootNumber: num}
		entry.Data, entry.Attributes, err = vars.GetVariable(efi.GlobalVariable, name)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %v", name, err)
		}
		entry.LoadOption, err = efivars.NewLoadOptionFromVariable(entry.Data)
		if err != nil {
			log.Printf("invalid boot entry %s: %s", name, err)
		}
		bm.entries[num] = entry
	}

	return bm, nil
}

// Prepare implements cleanup.Manager; the EFI variant has no setup work.
func (bm *BootManager) Prepare(ctx context.Context) error { return nil }

// Entries returns the boot entries in display order: the BootOrder
// sequence first, then any entries the order does not mention, by boot
// number. The assigned indices govern what the operator may select.
func (bm *BootManager) Entries(ctx context.Context) ([]cleanup.Entry, error) {
	var nums []int
	seen := make(map[int]bool)
	for _, num := range bm.bootOrder {
		if _, ok := bm.entries[num]; ok && !seen[num] {
			seen[num] = true
			nums = append(nums, num)
		}
	}
	var rest []int
	for num := range bm.entries {
		if !seen[num] {
			rest = append(rest, num)
		}
	}
	sort.Ints(rest)
	nums = append(nums, rest...)

	var out []cleanup.Entry
	for i, num := range nums {
		out = append(out, cleanup.Entry{
			Index:       i + 1,
			ID:          efivars.BootVariableName(num),
			Description: bm.entries[num].LoadOption.Description,
			Active:      num == bm.bootCurrent,
		})
	}
	return out, nil
}

// Remove deletes the Boot#### variable behind e and drops its number from
// the cached boot order. The order is not written back immediately: a run
// may delete several entries and Finalize coalesces those writes into a
// single BootOrder update.
func (bm *BootManager) Remove(ctx context.Context, e cleanup.Entry) (cleanup.Result, error) {
	num, ok := efivars.ParseBootVariableName(e.ID)
	if !ok {
		return cleanup.Result{}, fmt.Errorf("not a boot variable: %s", e.ID)
	}
	if num == bm.bootCurrent {
		return cleanup.Result{}, fmt.Errorf("refusing to remove the current boot entry %s", e.ID)
	}
	if _, ok := bm.entries[num]; !ok {
		return cleanup.Result{}, fmt.Errorf("tried deleting a non-existing variable %s", e.ID)
	}

	if err := DelVariable(bm.vars, efi.GlobalVariable, e.ID); err != nil {
		return cleanup.Result{}, err
	}
	delete(bm.entries, num)

	var newOrder []int
	for _, orderEntry := range bm.bootOrder {
		if orderEntry != num {
			newOrder = append(newOrder, orderEntry)
		}
	}
	if len(newOrder) != len(bm.bootOrder) {
		bm.orderDirty = true
	}
	bm.bootOrder = newOrder

	return cleanup.Result{Outcome: cleanup.Removed}, nil
}

// Finalize commits the updated boot order if any removal touched it.
func (bm *BootManager) Finalize(ctx context.Context) error {
	if !bm.orderDirty {
		return nil
	}
	var output []byte
	for _, num := range bm.bootOrder {
		output = binary.LittleEndian.AppendUint16(output, uint16(num))
	}
	if err := bm.vars.SetVariable(efi.GlobalVariable, "BootOrder", output, bm.bootOrderAttrs); err != nil {
		return fmt.Errorf("cannot update BootOrder: %v", err)
	}
	bm.orderDirty = false
	return nil
}
