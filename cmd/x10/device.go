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

type device struct {
	addr  x10.Address
	level int
	data  int
	cmd   int
}

func init() {
	dev := device{}

	onCmd := app.SubCommand("on", cli.UsageOption("<address>"), cli.DescOption("turn a device on"), cli.CallbackOption(dev.onCmd))
	onCmd.Arguments.Var(&dev.addr, "<address>")

	offCmd := app.SubCommand("off", cli.UsageOption("<address>"), cli.DescOption("turn a device off"), cli.CallbackOption(dev.offCmd))
	offCmd.Arguments.Var(&dev.addr, "<address>")

	dimCmd := app.SubCommand("dim", cli.UsageOption("<address> <percent>"), cli.DescOption("lower brightness by a percentage of the full range"), cli.CallbackOption(dev.dimCmd))
	dimCmd.Arguments.Var(&dev.addr, "<address>")
	dimCmd.Arguments.Int(&dev.level, "<percent>")

	brightCmd := app.SubCommand("bright", cli.UsageOption("<address> <percent>"), cli.DescOption("raise brightness by a percentage of the full range"), cli.CallbackOption(dev.brightCmd))
	brightCmd.Arguments.Var(&dev.addr, "<address>")
	brightCmd.Arguments.Int(&dev.level, "<percent>")

	statusCmd := app.SubCommand("status", cli.UsageOption("<address>"), cli.DescOption("request status from a two-way device"), cli.CallbackOption(dev.statusCmd))
	statusCmd.Arguments.Var(&dev.addr, "<address>")

	extCmd := app.SubCommand("ext", cli.UsageOption("<address> <data> <command>"), cli.DescOption("send an extended code frame"), cli.CallbackOption(dev.extCmd))
	extCmd.Arguments.Var(&dev.addr, "<address>")
	extCmd.Arguments.Int(&dev.data, "<data>")
	extCmd.Arguments.Int(&dev.cmd, "<command>")
}

func (dev *device) onCmd() error     { return send(x10.On(dev.addr)) }
func (dev *device) offCmd() error    { return send(x10.Off(dev.addr)) }
func (dev *device) dimCmd() error    { return send(x10.Dim(dev.addr, dev.level)) }
func (dev *device) brightCmd() error { return send(x10.Bright(dev.addr, dev.level)) }
func (dev *device) statusCmd() error { return send(x10.StatusRequest(dev.addr)) }
func (dev *device) extCmd() error {
	return send(x10.Extended(dev.addr, byte(dev.data), byte(dev.cmd)))
}
