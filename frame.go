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

const (
	// StandardFrameLen is the marshaled length of an address or function
	// frame: the 4 half-cycle start code plus 9 data bits sent as
	// true/complement pairs (22 half-cycles) packed into bytes
	StandardFrameLen = 3

	// ExtendedFrameLen is the marshaled length of an extended code
	// frame, which appends a data byte and a command byte to the
	// standard frame (54 half-cycles)
	ExtendedFrameLen = 7

	// DefaultDimSteps is the dimming resolution assumed when none is
	// configured.  Most transceivers divide the range into 22 steps;
	// some use 16.  The resolution is a deployment property, not a
	// protocol property
	DefaultDimSteps = 22
)

// FrameType distinguishes the two X10 frame phases
type FrameType int

const (
	// AddressFrame selects a unit within the house
	AddressFrame FrameType = iota

	// FunctionFrame applies a function to the selected units (or to the
	// whole house)
	FunctionFrame
)

func (ft FrameType) String() string {
	if ft == AddressFrame {
		return "address"
	}
	return "function"
}

// Frame is one X10 powerline transmission: a house nibble, a key nibble
// (unit code or function code) and a repeat count.  Extended frames
// additionally carry a data byte and a command byte.  Frames are
// immutable once built
type Frame struct {
	Type      FrameType
	HouseCode byte
	KeyCode   byte
	Repeat    int

	Extended bool
	Data     byte
	Cmd      byte
}

// MarshalBinary produces the half-cycle bit image of the frame: the
// start code 1110 followed by the house bits, key bits and the
// address/function flag bit, each data bit transmitted as a bit followed
// by its complement.  The image is packed MSB first and zero padded
func (f Frame) MarshalBinary() ([]byte, error) {
	bits := []byte{1, 1, 1, 0}
	bits = appendPairs(bits, f.HouseCode, 4)
	bits = appendPairs(bits, f.KeyCode, 4)
	if f.Type == FunctionFrame {
		bits = appendPairs(bits, 1, 1)
	} else {
		bits = appendPairs(bits, 0, 1)
	}
	if f.Extended {
		bits = appendPairs(bits, f.Data, 8)
		bits = appendPairs(bits, f.Cmd, 8)
	}

	buf := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			buf[i/8] |= 0x80 >> (i % 8)
		}
	}
	return buf, nil
}

// appendPairs appends the low n bits of value (MSB first), each followed
// by its complement
func appendPairs(bits []byte, value byte, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		bit := (value >> i) & 1
		bits = append(bits, bit, bit^1)
	}
	return bits
}

func (f Frame) String() string {
	house := House('A' + x10Index[f.HouseCode])
	str := ""
	switch {
	case f.Type == AddressFrame:
		addr, _ := DecodeAddress(f.HouseCode, f.KeyCode)
		str = sprintf("Addr(%s)", addr)
	case f.Extended:
		str = sprintf("Ext(%s 0x%02x 0x%02x)", house, f.Data, f.Cmd)
	default:
		str = sprintf("Func(%s %s)", house, Function(f.KeyCode))
	}
	if f.Repeat != 1 {
		str = sprintf("%s x%d", str, f.Repeat)
	}
	return str
}

// Builder assembles the ordered frame sequence for a command.  The zero
// value uses DefaultDimSteps
type Builder struct {
	// DimSteps is the number of discrete steps the target transceivers
	// divide the dimming range into
	DimSteps int
}

// Steps converts a 0-100 percentage into the builder's discrete step
// count, rounding to the nearest step.  The achieved step count may
// differ from what the percentage implies; that is a property of X10's
// coarse dimming, not an error
func (b Builder) Steps(level int) int {
	steps := b.DimSteps
	if steps <= 0 {
		steps = DefaultDimSteps
	}
	return (level*steps + 50) / 100
}

// Build validates the command and produces the minimal correct frame
// sequence:
//
//	addressed switch functions: address frame x2, function frame x2
//	house-wide functions:       function frame x2 (no address phase)
//	dim/bright:                 address frame x2, function frame once per step
//	extended code:              address frame x2, one extended frame
//
// A dim command that resolves to zero steps still emits its address
// frames so the transmission is observable on the powerline (useful as a
// liveness probe); it just applies no function
func (b Builder) Build(cmd Command) ([]Frame, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	if cmd.Function.houseWide() {
		return []Frame{{
			Type:      FunctionFrame,
			HouseCode: cmd.House.Code(),
			KeyCode:   cmd.Function.Code(),
			Repeat:    2,
		}}, nil
	}

	frames := []Frame{{
		Type:      AddressFrame,
		HouseCode: cmd.Address.HouseCode(),
		KeyCode:   cmd.Address.UnitCode(),
		Repeat:    2,
	}}

	function := Frame{
		Type:      FunctionFrame,
		HouseCode: cmd.Address.HouseCode(),
		KeyCode:   cmd.Function.Code(),
		Repeat:    2,
	}

	switch {
	case cmd.Function.dimming():
		// dim steps are applied by contiguous retransmission, one frame
		// per step
		function.Repeat = b.Steps(cmd.Level)
		if function.Repeat == 0 {
			return frames, nil
		}
	case cmd.Function == FuncExtendedCode:
		// extended codes are not doubled
		function.Repeat = 1
		function.Extended = true
		function.Data = cmd.Data
		function.Cmd = cmd.Cmd
	}

	return append(frames, function), nil
}
