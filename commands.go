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

// Function is one of the sixteen X10 function codes.  The code is the
// key nibble transmitted in a function frame
type Function byte

// All sixteen X10 functions.  Only a subset can be transmitted by this
// package; the remainder (acks, status responses, preset dim) are
// generated by receivers and preset controllers
const (
	// FuncAllUnitsOff turns off every unit in the house
	FuncAllUnitsOff Function = 0x00

	// FuncAllLightsOn turns on every lighting unit in the house
	FuncAllLightsOn Function = 0x01

	// FuncOn turns the addressed units on
	FuncOn Function = 0x02

	// FuncOff turns the addressed units off
	FuncOff Function = 0x03

	// FuncDim lowers the brightness of the addressed units by one step
	// per transmission
	FuncDim Function = 0x04

	// FuncBright raises the brightness of the addressed units by one
	// step per transmission
	FuncBright Function = 0x05

	// FuncAllLightsOff turns off every lighting unit in the house
	FuncAllLightsOff Function = 0x06

	// FuncExtendedCode introduces an extended frame carrying a data byte
	// and a command byte
	FuncExtendedCode Function = 0x07

	// FuncHailRequest asks other transmitters in earshot to respond
	FuncHailRequest Function = 0x08

	// FuncHailAck is the response to a hail request
	FuncHailAck Function = 0x09

	// FuncPresetDim1 and FuncPresetDim2 carry preset dim levels in the
	// house nibble
	FuncPresetDim1 Function = 0x0a
	FuncPresetDim2 Function = 0x0b

	// FuncExtendedData precedes analog data frames
	FuncExtendedData Function = 0x0c

	// FuncStatusOn and FuncStatusOff are status responses
	FuncStatusOn  Function = 0x0d
	FuncStatusOff Function = 0x0e

	// FuncStatusRequest asks the addressed unit to report its status
	FuncStatusRequest Function = 0x0f
)

var funcStrings = map[Function]string{
	FuncAllUnitsOff:   "All Units Off",
	FuncAllLightsOn:   "All Lights On",
	FuncOn:            "On",
	FuncOff:           "Off",
	FuncDim:           "Dim",
	FuncBright:        "Bright",
	FuncAllLightsOff:  "All Lights Off",
	FuncExtendedCode:  "Extended Code",
	FuncHailRequest:   "Hail Request",
	FuncHailAck:       "Hail Ack",
	FuncPresetDim1:    "Preset Dim 1",
	FuncPresetDim2:    "Preset Dim 2",
	FuncExtendedData:  "Extended Data",
	FuncStatusOn:      "Status On",
	FuncStatusOff:     "Status Off",
	FuncStatusRequest: "Status Request",
}

func (f Function) String() string {
	if str, found := funcStrings[f]; found {
		return str
	}
	return sprintf("Function(0x%02x)", byte(f))
}

// Code returns the key nibble transmitted for the function
func (f Function) Code() byte { return byte(f) }

// houseWide reports whether the function addresses the whole house and
// is transmitted without a preceding address frame
func (f Function) houseWide() bool {
	switch f {
	case FuncAllUnitsOff, FuncAllLightsOn, FuncAllLightsOff, FuncHailRequest:
		return true
	}
	return false
}

// dimming reports whether the function is repeated once per dim step
func (f Function) dimming() bool {
	return f == FuncDim || f == FuncBright
}

// transmittable reports whether this package can originate the function.
// Receiver-side responses and preset dim codes cannot be queued
func (f Function) transmittable() bool {
	switch f {
	case FuncHailAck, FuncPresetDim1, FuncPresetDim2, FuncExtendedData, FuncStatusOn, FuncStatusOff:
		return false
	}
	return f <= FuncStatusRequest
}
