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

package main

import (
	"github.com/abates/cli"
	"github.com/abates/x10"
)

type houseCmd struct {
	house x10.House
}

func init() {
	hc := houseCmd{}

	cmd := app.SubCommand("all-units-off", cli.UsageOption("<house>"), cli.DescOption("turn off every unit in a house"), cli.CallbackOption(hc.allUnitsOff))
	cmd.Arguments.Var(&hc.house, "<house>")

	cmd = app.SubCommand("all-lights-on", cli.UsageOption("<house>"), cli.DescOption("turn on every lighting unit in a house"), cli.CallbackOption(hc.allLightsOn))
	cmd.Arguments.Var(&hc.house, "<house>")

	cmd = app.SubCommand("all-lights-off", cli.UsageOption("<house>"), cli.DescOption("turn off every lighting unit in a house"), cli.CallbackOption(hc.allLightsOff))
	cmd.Arguments.Var(&hc.house, "<house>")

	cmd = app.SubCommand("hail", cli.UsageOption("<house>"), cli.DescOption("hail other transmitters on a house code"), cli.CallbackOption(hc.hail))
	cmd.Arguments.Var(&hc.house, "<house>")
}

func (hc *houseCmd) allUnitsOff() error  { return send(x10.AllUnitsOff(hc.house)) }
func (hc *houseCmd) allLightsOn() error  { return send(x10.AllLightsOn(hc.house)) }
func (hc *houseCmd) allLightsOff() error { return send(x10.AllLightsOff(hc.house)) }
func (hc *houseCmd) hail() error         { return send(x10.Hail(hc.house)) }
