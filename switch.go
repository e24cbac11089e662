// Copyright 2019 Andrew Bates
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

import "sync"

// LevelUnknown is reported by Level until a command has completed for
// the device.  X10 is one-way; the tracked level is inferred from the
// commands we sent, never read back from the device
const LevelUnknown = -1

// Switch drives a single appliance or lamp module and tracks its last
// known state.  All methods block until the command has been
// transmitted (or has failed)
type Switch struct {
	dispatcher *Dispatcher
	addr       Address

	mu    sync.Mutex
	level int
}

// NewSwitch creates a Switch for the device at addr
func NewSwitch(dispatcher *Dispatcher, addr Address) *Switch {
	return &Switch{dispatcher: dispatcher, addr: addr, level: LevelUnknown}
}

// Address returns the device address
func (s *Switch) Address() Address { return s.addr }

// On turns the device on
func (s *Switch) On() error {
	err := s.send(On(s.addr))
	if err == nil {
		s.setLevel(100)
	}
	return err
}

// Off turns the device off
func (s *Switch) Off() error {
	err := s.send(Off(s.addr))
	if err == nil {
		s.setLevel(0)
	}
	return err
}

// Level returns the last known level (0-100) or LevelUnknown
func (s *Switch) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *Switch) String() string {
	return sprintf("Switch (%s)", s.addr)
}

func (s *Switch) send(cmd Command) error {
	receipt, err := s.dispatcher.Send(cmd)
	if err != nil {
		return err
	}
	return receipt.Wait()
}

func (s *Switch) setLevel(level int) {
	if level < 0 {
		level = 0
	} else if level > 100 {
		level = 100
	}
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}
