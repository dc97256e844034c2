// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package efibootmgr

import (
	"errors"
	"testing"

	efi "github.com/canonical/go-efilib"

	"github.com/oskit/bootclean/efivars"
)

type mockEFIVariable struct {
	data  []byte
	attrs efi.VariableAttributes
}

// MockEFIVariables is an in-memory variable store.
type MockEFIVariables struct {
	store  map[efi.VariableDescriptor]mockEFIVariable
	writes int
}

func (m *MockEFIVariables) ListVariables() ([]efi.VariableDescriptor, error) {
	var out []efi.VariableDescriptor
	for k := range m.store {
		out = append(out, k)
	}
	return out, nil
}

func (m *MockEFIVariables) GetVariable(guid efi.GUID, name string) ([]byte, efi.VariableAttributes, error) {
	v, ok := m.store[efi.VariableDescriptor{GUID: guid, Name: name}]
	if !ok {
		return nil, 0, errors.New("variable does not exist")
	}
	return v.data, v.attrs, nil
}

// SetVariable mimics efivarfs semantics: an empty payload deletes the
// variable.
func (m *MockEFIVariables) SetVariable(guid efi.GUID, name string, data []byte, attrs efi.VariableAttributes) error {
	m.writes++
	desc := efi.VariableDescriptor{GUID: guid, Name: name}
	if len(data) == 0 {
		delete(m.store, desc)
		return nil
	}
	m.store[desc] = mockEFIVariable{data, attrs}
	return nil
}

// NoEFIVariables represents a host without efivarfs.
type NoEFIVariables struct{}

func (NoEFIVariables) ListVariables() ([]efi.VariableDescriptor, error) {
	return nil, errors.New("no efivarfs")
}

func (NoEFIVariables) GetVariable(guid efi.GUID, name string) ([]byte, efi.VariableAttributes, error) {
	return nil, 0, errors.New("no efivarfs")
}

func (NoEFIVariables) SetVariable(guid efi.GUID, name string, data []byte, attrs efi.VariableAttributes) error {
	return errors.New("no efivarfs")
}

func bootVar(t *testing.T, desc string) []byte {
	t.Helper()
	lo, err := efivars.NewLoadOption(efivars.LoadOptionActive, desc, []byte{0x7f, 0xff, 0x04, 0x00}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return lo.Data
}
