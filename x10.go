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

// Package x10 models the X10 powerline protocol: house/unit addressing,
// function encoding, powerline frame assembly and serialized dispatch of
// frames to a power-line modem.  The package does not implement any
// modem firmware protocol itself; it hands fully encoded frames to a
// Transport one at a time
package x10

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress indicates a house code outside A-P or a unit
	// outside 1-16
	ErrInvalidAddress = errors.New("invalid address (house A-P, unit 1-16)")

	// ErrAddrFormat indicates unparseable address text
	ErrAddrFormat = errors.New("address format is a house letter followed by a unit number (e.g. A1)")

	// ErrInvalidHouse indicates a house letter outside A-P
	ErrInvalidHouse = errors.New("house code must be a letter between A and P")

	// ErrInvalidCode indicates a wire nibble that decodes to nothing
	ErrInvalidCode = errors.New("not an X10 house/unit code")

	// ErrUnsupportedCommand is returned when asked to encode a function
	// that cannot be transmitted (receiver-side or unknown functions)
	ErrUnsupportedCommand = errors.New("unsupported command")

	// ErrMissingParameter is returned for DIM/BRIGHT without a level or
	// EXTENDED without a payload
	ErrMissingParameter = errors.New("command requires a parameter")

	// ErrInvalidParameter is returned when a dim level is outside 0-100
	ErrInvalidParameter = errors.New("parameter out of range")

	// ErrTransportFailure indicates the modem transport rejected a frame.
	// The dispatcher does not retry; receivers may have acted on any
	// frames already delivered
	ErrTransportFailure = errors.New("transport failure")

	// ErrQueueFull is the backpressure signal when the dispatch queue is
	// at capacity
	ErrQueueFull = errors.New("dispatch queue is full")

	// ErrQueueClosed is returned for sends after Close and assigned to
	// entries that were still pending at Close
	ErrQueueClosed = errors.New("dispatch queue is closed")
)

var sprintf = fmt.Sprintf
