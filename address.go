// Copyright 2018 Andrew Bates
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package x10

import (
	"encoding/json"
	"strconv"
)

// X10 assigns wire nibbles to houses and units in a fixed non-sequential
// order.  The same sequence serves both tables (house A and unit 1 share
// code 0x06 and so on).  This is a protocol constant; deriving it
// arithmetically is a known source of off-by-one bugs
var x10Codes = [16]byte{
	0x06, 0x0e, 0x02, 0x0a,
	0x01, 0x09, 0x05, 0x0d,
	0x07, 0x0f, 0x03, 0x0b,
	0x00, 0x08, 0x04, 0x0c,
}

// x10Index is the inverse of x10Codes: wire nibble back to house/unit
// index
var x10Index [16]byte

func init() {
	for i, code := range x10Codes {
		x10Index[code] = byte(i)
	}
}

// House is an X10 house letter between 'A' and 'P'
type House byte

// ParseHouse converts a single letter (either case) into a House
func ParseHouse(str string) (House, error) {
	if len(str) != 1 {
		return 0, ErrInvalidHouse
	}
	house := House(str[0])
	if 'a' <= house && house <= 'p' {
		house -= 'a' - 'A'
	}
	if !house.valid() {
		return 0, ErrInvalidHouse
	}
	return house, nil
}

func (h House) valid() bool { return 'A' <= h && h <= 'P' }

// Code returns the house wire nibble
func (h House) Code() byte { return x10Codes[h-'A'] }

func (h House) String() string { return string(byte(h)) }

// Set satisfies the flag.Value interface
func (h *House) Set(str string) (err error) {
	*h, err = ParseHouse(str)
	return err
}

// Get satisfies the flag.Getter interface
func (h *House) Get() interface{} { return *h }

// Address identifies a single X10 device by house letter and unit
// number.  The zero value is A1.  Addresses are immutable values; the
// high nibble holds the house index and the low nibble holds unit-1
type Address byte

// NewAddress returns the Address for the given house letter ('A'-'P',
// either case) and unit number (1-16)
func NewAddress(house byte, unit int) (Address, error) {
	if 'a' <= house && house <= 'p' {
		house -= 'a' - 'A'
	}
	if house < 'A' || 'P' < house || unit < 1 || 16 < unit {
		return 0, ErrInvalidAddress
	}
	return Address((house-'A')<<4 | byte(unit-1)), nil
}

// ParseAddress converts strings of the form "A1" or "p16" into an
// Address
func ParseAddress(str string) (Address, error) {
	if len(str) < 2 {
		return 0, ErrAddrFormat
	}
	unit, err := strconv.Atoi(str[1:])
	if err != nil {
		return 0, ErrAddrFormat
	}
	return NewAddress(str[0], unit)
}

// House returns the house letter of the address
func (a Address) House() House { return House('A' + a>>4) }

// Unit returns the unit number (1-16) of the address
func (a Address) Unit() int { return int(a&0x0f) + 1 }

// HouseCode returns the wire nibble for the address's house letter
func (a Address) HouseCode() byte { return x10Codes[a>>4] }

// UnitCode returns the wire nibble for the address's unit number
func (a Address) UnitCode() byte { return x10Codes[a&0x0f] }

// DecodeAddress is the inverse of HouseCode/UnitCode.  It converts a
// pair of wire nibbles back into an Address and is lossless for all 256
// valid combinations
func DecodeAddress(houseCode, unitCode byte) (Address, error) {
	if houseCode > 0x0f || unitCode > 0x0f {
		return 0, ErrInvalidCode
	}
	return Address(x10Index[houseCode]<<4 | x10Index[unitCode]), nil
}

// String formats the address the way it is printed on X10 hardware:
// house letter followed by unit number (e.g. "A1")
func (a Address) String() string {
	return sprintf("%s%d", a.House(), a.Unit())
}

// Set satisfies the flag.Value interface
func (a *Address) Set(str string) (err error) {
	*a, err = ParseAddress(str)
	return err
}

// Get satisfies the flag.Getter interface
func (a *Address) Get() interface{} { return *a }

// MarshalText fulfills encoding.TextMarshaler so that Address can be
// used as a map key in other encoding
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText converts a human readable string into an Address.  If
// the text cannot be parsed then UnmarshalText returns an error
func (a *Address) UnmarshalText(text []byte) error {
	return a.Set(string(text))
}

// MarshalJSON will convert the address to a JSON string
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON will populate the address from the input JSON string
func (a *Address) UnmarshalJSON(data []byte) (err error) {
	var s string
	if err = json.Unmarshal(data, &s); err == nil {
		err = a.Set(s)
	}
	return err
}
