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

// Command is one logical X10 request: a function, its target (a single
// device or a whole house) and an optional parameter.  Commands are
// built with the constructor functions below and validated when frames
// are built; an invalid combination never reaches the dispatch queue
type Command struct {
	// Function is the X10 function to transmit
	Function Function

	// Address is the target device for addressed functions
	Address Address

	// House is the target house for house-wide functions
	House House

	// Level is the requested dim/bright amount as a percentage of the
	// full dimming range (0-100)
	Level int

	// Data and Cmd are the payload of an extended code frame
	Data byte
	Cmd  byte

	addressed bool
	hasLevel  bool
	hasData   bool
}

// On turns a device on
func On(addr Address) Command {
	return Command{Function: FuncOn, Address: addr, House: addr.House(), addressed: true}
}

// Off turns a device off
func Off(addr Address) Command {
	return Command{Function: FuncOff, Address: addr, House: addr.House(), addressed: true}
}

// Dim lowers a device's brightness by level percent of the full range.
// X10 dimming is coarse; the percentage is rounded to the nearest
// supported step and the achieved step count is reported on the
// dispatch receipt
func Dim(addr Address, level int) Command {
	return Command{Function: FuncDim, Address: addr, House: addr.House(), Level: level, addressed: true, hasLevel: true}
}

// Bright raises a device's brightness by level percent of the full
// range, with the same rounding behavior as Dim
func Bright(addr Address, level int) Command {
	return Command{Function: FuncBright, Address: addr, House: addr.House(), Level: level, addressed: true, hasLevel: true}
}

// StatusRequest asks a device to report its status.  Most one-way X10
// modules ignore it; two-way modules answer with Status On/Off
func StatusRequest(addr Address) Command {
	return Command{Function: FuncStatusRequest, Address: addr, House: addr.House(), addressed: true}
}

// AllUnitsOff turns off every unit in the house
func AllUnitsOff(house House) Command {
	return Command{Function: FuncAllUnitsOff, House: house}
}

// AllLightsOn turns on every lighting unit in the house
func AllLightsOn(house House) Command {
	return Command{Function: FuncAllLightsOn, House: house}
}

// AllLightsOff turns off every lighting unit in the house
func AllLightsOff(house House) Command {
	return Command{Function: FuncAllLightsOff, House: house}
}

// Hail asks other transmitters on the house code to respond
func Hail(house House) Command {
	return Command{Function: FuncHailRequest, House: house}
}

// Extended sends an extended code frame with the given data and command
// bytes
func Extended(addr Address, data byte, cmd byte) Command {
	return Command{Function: FuncExtendedCode, Address: addr, House: addr.House(), Data: data, Cmd: cmd, addressed: true, hasData: true}
}

func (cmd Command) String() string {
	switch {
	case cmd.Function.houseWide():
		return sprintf("%s %s", cmd.House, cmd.Function)
	case cmd.hasLevel:
		return sprintf("%s %s %d%%", cmd.Address, cmd.Function, cmd.Level)
	case cmd.hasData:
		return sprintf("%s %s 0x%02x 0x%02x", cmd.Address, cmd.Function, cmd.Data, cmd.Cmd)
	}
	return sprintf("%s %s", cmd.Address, cmd.Function)
}

// validate applies the parameter invariants: dim functions must carry a
// 0-100 level, extended code must carry a payload and everything else
// must carry nothing
func (cmd Command) validate() error {
	if !cmd.Function.transmittable() {
		return ErrUnsupportedCommand
	}

	if cmd.Function.houseWide() {
		if !cmd.House.valid() {
			return ErrInvalidHouse
		}
		return nil
	}

	if !cmd.addressed {
		return ErrInvalidAddress
	}

	switch {
	case cmd.Function.dimming():
		if !cmd.hasLevel {
			return ErrMissingParameter
		}
		if cmd.Level < 0 || 100 < cmd.Level {
			return ErrInvalidParameter
		}
	case cmd.Function == FuncExtendedCode:
		if !cmd.hasData {
			return ErrMissingParameter
		}
	case cmd.hasLevel || cmd.hasData:
		return ErrInvalidParameter
	}
	return nil
}
