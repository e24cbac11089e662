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

// Dimmer is a Switch whose brightness can be nudged up and down.  X10
// has no absolute set-level command; Dim and Brighten are relative
// moves, so the tracked level drifts from reality if anything else
// (a wall switch, another controller) touches the device
type Dimmer struct {
	*Switch
}

// NewDimmer creates a Dimmer for the lamp module at addr.  All dimmers
// are switches, so the dimmer is composed of one
func NewDimmer(dispatcher *Dispatcher, addr Address) *Dimmer {
	return &Dimmer{Switch: NewSwitch(dispatcher, addr)}
}

// Dim lowers brightness by level percent of the full range.  The
// achieved change is the receipt's resolved step count converted back
// to a percentage
func (d *Dimmer) Dim(level int) error {
	return d.adjust(Dim(d.addr, level), -1)
}

// Brighten raises brightness by level percent of the full range
func (d *Dimmer) Brighten(level int) error {
	return d.adjust(Bright(d.addr, level), 1)
}

func (d *Dimmer) String() string {
	return sprintf("Dimmer (%s)", d.addr)
}

func (d *Dimmer) adjust(cmd Command, direction int) error {
	receipt, err := d.dispatcher.Send(cmd)
	if err != nil {
		return err
	}
	err = receipt.Wait()
	if err != nil {
		return err
	}

	// an untracked device is assumed fully on, which is what a lamp
	// module does when first commanded to dim
	base := d.Level()
	if base == LevelUnknown {
		base = 100
	}
	achieved := receipt.Steps() * 100 / d.dispatcher.DimSteps()
	d.setLevel(base + direction*achieved)
	return nil
}
