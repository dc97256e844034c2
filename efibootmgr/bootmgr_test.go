// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package efibootmgr

import (
	"bytes"
	"context"
	"testing"

	efi "github.com/canonical/go-efilib"
)

func mockSystem(t *testing.T) *MockEFIVariables {
	return &MockEFIVariables{
		store: map[efi.VariableDescriptor]mockEFIVariable{
			{GUID: efi.GlobalVariable, Name: "BootOrder"}:   {[]byte{2, 0, 1, 0}, 123},
			{GUID: efi.GlobalVariable, Name: "BootCurrent"}: {[]byte{1, 0}, 123},
			{GUID: efi.GlobalVariable, Name: "Boot0001"}:    {bootVar(t, "Windows Boot Manager"), 42},
			{GUID: efi.GlobalVariable, Name: "Boot0002"}:    {bootVar(t, "Rocky Linux (snapshot1)"), 42},
			{GUID: efi.GlobalVariable, Name: "Boot0003"}:    {bootVar(t, "Rocky Linux (snapshot2)"), 42},
		},
	}
}

func TestEnumerateOrderAndActive(t *testing.T) {
	bm, err := newBootManagerFromVariables(mockSystem(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := bm.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %v", entries)
	}

	// BootOrder declares 2 then 1; Boot0003 is unordered and trails.
	want := []struct {
		id     string
		desc   string
		active bool
	}{
		{"Boot0002", "Rocky Linux (snapshot1)", false},
		{"Boot0001", "Windows Boot Manager", true},
		{"Boot0003", "Rocky Linux (snapshot2)", false},
	}
	for i, w := range want {
		e := entries[i]
		if e.Index != i+1 || e.ID != w.id || e.Description != w.desc || e.Active != w.active {
			t.Errorf("entry %d: expected %+v, got %+v", i, w, e)
		}
	}
}

func TestRemoveDeletesVariableAndCoalescesOrder(t *testing.T) {
	vars := mockSystem(t)
	bm, err := newBootManagerFromVariables(vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := bm.Entries(context.Background())

	if _, err := bm.Remove(context.Background(), entries[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := vars.store[efi.VariableDescriptor{GUID: efi.GlobalVariable, Name: "Boot0002"}]; ok {
		t.Errorf("expected Boot0002 to be deleted")
	}

	// BootOrder is only written back on Finalize.
	order := vars.store[efi.VariableDescriptor{GUID: efi.GlobalVariable, Name: "BootOrder"}]
	if !bytes.Equal(order.data, []byte{2, 0, 1, 0}) {
		t.Errorf("BootOrder written before Finalize: %v", order.data)
	}

	if err := bm.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order = vars.store[efi.VariableDescriptor{GUID: efi.GlobalVariable, Name: "BootOrder"}]
	if !bytes.Equal(order.data, []byte{1, 0}) {
		t.Errorf("expected BootOrder {1}, got %v", order.data)
	}
	if order.attrs != 123 {
		t.Errorf("expected BootOrder attributes preserved, got %v", order.attrs)
	}
}

func TestRemoveActiveEntryRefused(t *testing.T) {
	bm, err := newBootManagerFromVariables(mockSystem(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := bm.Entries(context.Background())

	if _, err := bm.Remove(context.Background(), entries[1]); err == nil {
		t.Fatal("expected removing the current boot entry to fail")
	}
	if len(bm.entries) != 3 {
		t.Errorf("expected entries untouched, got %v", bm.entries)
	}
}

func TestRemoveNonExistingEntry(t *testing.T) {
	vars := mockSystem(t)
	bm, err := newBootManagerFromVariables(vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := bm.Entries(context.Background())

	if _, err := bm.Remove(context.Background(), entries[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := bm.Remove(context.Background(), entries[0]); err == nil {
		t.Fatal("expected removing a deleted entry to fail")
	}
}

func TestFinalizeWithoutRemovalsWritesNothing(t *testing.T) {
	vars := mockSystem(t)
	bm, err := newBootManagerFromVariables(vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bm.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars.writes != 0 {
		t.Errorf("expected no variable writes, got %d", vars.writes)
	}
}

func TestInvalidLoadOptionStillListed(t *testing.T) {
	vars := mockSystem(t)
	vars.store[efi.VariableDescriptor{GUID: efi.GlobalVariable, Name: "Boot0004"}] = mockEFIVariable{[]byte{1, 2}, 42}

	bm, err := newBootManagerFromVariables(vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ := bm.Entries(context.Background())
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %v", entries)
	}
	last := entries[3]
	if last.ID != "Boot0004" || last.Description != "" {
		t.Errorf("unexpected entry for invalid load option: %+v", last)
	}
}

func TestUnsupportedSystem(t *testing.T) {
	if _, err := newBootManagerFromVariables(NoEFIVariables{}); err == nil {
		t.Fatal("expected an error without efivarfs")
	}
}
