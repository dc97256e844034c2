// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

package efibootmgr

import (
	"context"

	efi "github.com/canonical/go-efilib"
)

// EFIVariables abstracts away the host firmware variable store.
type EFIVariables interface {
	ListVariables() ([]efi.VariableDescriptor, error)
	GetVariable(guid efi.GUID, name string) (data []byte, attrs efi.VariableAttributes, err error)
	SetVariable(guid efi.GUID, name string, data []byte, attrs efi.VariableAttributes) error
}

// RealEFIVariables provides the real implementation of EFIVariables.
type RealEFIVariables struct{}

// ListVariables proxy
func (RealEFIVariables) ListVariables() ([]efi.VariableDescriptor, error) {
	return efi.ListVariables(context.Background())
}

// GetVariable proxy
func (RealEFIVariables) GetVariable(guid efi.GUID, name string) (data []byte, attrs efi.VariableAttributes, err error) {
	return efi.ReadVariable(context.Background(), name, guid)
}

// SetVariable proxy
func (RealEFIVariables) SetVariable(guid efi.GUID, name string, data []byte, attrs efi.VariableAttributes) error {
	return efi.WriteVariable(context.Background(), name, guid, attrs, data)
}

// Chosen implementation
var appEFIVars EFIVariables = RealEFIVariables{}

// VariablesSupported indicates whether variables can be accessed.
func VariablesSupported(vars EFIVariables) bool {
	_, err := vars.ListVariables()
	return err == nil
}

// GetVariableNames returns the names of every variable with the specified GUID.
func GetVariableNames(vars EFIVariables, filterGUID efi.GUID) (names []string, err error) {
	descriptors, err := vars.ListVariables()
	if err != nil {
		return nil, err
	}
	for _, entry := range descriptors {
		if entry.GUID != filterGUID {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

// DelVariable deletes the variable with the specified name by writing an
// empty payload with the attributes preserved.
func DelVariable(vars EFIVariables, guid efi.GUID, name string) error {
	_, attrs, err := vars.GetVariable(guid, name)
	if err != nil {
		return err
	}
	return vars.SetVariable(guid, name, nil, attrs)
}
