// This file is part of bootclean
// SPDX-License-Identifier: GPL-3.0-only

// Package efivars parses and builds EFI boot variables.
package efivars

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// LoadOptionActive marks an entry the firmware will attempt to boot.
const LoadOptionActive = 0x00000001

// ErrInvalidLoadOption is wrapped by all parse failures in this package.
var ErrInvalidLoadOption = errors.New("invalid load option")

var ucs2 = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// LoadOption is a parsed EFI_LOAD_OPTION payload, as stored in a
// Boot#### variable.
type LoadOption struct {
	Attributes   uint32
	Description  string
	FilePathList []byte // raw device path list, not interpreted here
	OptionalData []byte
	Data         []byte // the unparsed payload
}

// NewLoadOptionFromVariable parses the payload of a Boot#### variable.
func NewLoadOptionFromVariable(data []byte) (LoadOption, error) {
	if len(data) < 6 {
		return LoadOption{}, fmt.Errorf("%w: %d bytes is too short", ErrInvalidLoadOption, len(data))
	}
	lo := LoadOption{Data: data}
	lo.Attributes = binary.LittleEndian.Uint32(data[0:4])
	pathLen := int(binary.LittleEndian.Uint16(data[4:6]))
	rest := data[6:]

	// The description is a NUL-terminated UCS-2 string.
	term := -1
	for i := 0; i+1 < len(rest); i += 2 {
		if rest[i] == 0 && rest[i+1] == 0 {
			term = i
			break
		}
	}
	if term < 0 {
		return LoadOption{}, fmt.Errorf("%w: unterminated description", ErrInvalidLoadOption)
	}
	desc, err := ucs2.NewDecoder().Bytes(rest[:term])
	if err != nil {
		return LoadOption{}, fmt.Errorf("%w: cannot decode description: %v", ErrInvalidLoadOption, err)
	}
	lo.Description = string(desc)

	rest = rest[term+2:]
	if pathLen > len(rest) {
		return LoadOption{}, fmt.Errorf("%w: file path list of %d bytes exceeds remaining %d bytes", ErrInvalidLoadOption, pathLen, len(rest))
	}
	lo.FilePathList = rest[:pathLen]
	lo.OptionalData = rest[pathLen:]
	return lo, nil
}

// NewLoadOption builds a load option from its parts and returns it parsed.
func NewLoadOption(attrs uint32, desc string, filePathList, optionalData []byte) (LoadOption, error) {
	encoded, err := ucs2.NewEncoder().Bytes([]byte(desc))
	if err != nil {
		return LoadOption{}, fmt.Errorf("cannot encode description: %v", err)
	}

	data := make([]byte, 0, 6+len(encoded)+2+len(filePathList)+len(optionalData))
	data = binary.LittleEndian.AppendUint32(data, attrs)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(filePathList)))
	data = append(data, encoded...)
	data = append(data, 0, 0)
	data = append(data, filePathList...)
	data = append(data, optionalData...)

	return NewLoadOptionFromVariable(data)
}

// IsActive reports whether the firmware considers the entry bootable.
func (lo LoadOption) IsActive() bool {
	return lo.Attributes&LoadOptionActive != 0
}
