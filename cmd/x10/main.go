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
	"fmt"
	"os"
	"time"

	"github.com/abates/cli"
	"github.com/tarm/serial"

	"github.com/abates/x10"
	"github.com/abates/x10/plm"
)

var (
	disp  *x10.Dispatcher
	modem *plm.Modem

	logLevelFlag   x10.LogLevel
	serialPortFlag string
	timeoutFlag    time.Duration
	frameGapFlag   time.Duration
	dimStepsFlag   int

	app = cli.New(os.Args[0], cli.CallbackOption(cli.CommandFunc(run)))
)

func init() {
	app.SetOutput(os.Stderr)
	app.Flags.StringVar(&serialPortFlag, "port", "/dev/ttyUSB0", "serial port connected to the powerline modem")
	app.Flags.Var(&logLevelFlag, "log", "Log Level {none|info|debug|trace}")
	app.Flags.DurationVar(&timeoutFlag, "timeout", 3*time.Second, "how long to wait for the modem to ack a frame")
	app.Flags.DurationVar(&frameGapFlag, "gap", x10.DefaultFrameGap, "pause between address and function frames")
	app.Flags.IntVar(&dimStepsFlag, "steps", x10.DefaultDimSteps, "dim resolution of the installed transceivers")
}

func run() error {
	if logLevelFlag > x10.LevelNone {
		x10.SetLogLevel(logLevelFlag, os.Stderr)
	}

	c := &serial.Config{
		Name: serialPortFlag,
		Baud: 4800,
	}

	s, err := serial.OpenPort(c)
	if err != nil {
		return fmt.Errorf("error opening serial port: %v", err)
	}

	modem, err = plm.New(plm.NewPort(s), timeoutFlag)
	if err != nil {
		return err
	}

	disp, err = x10.NewDispatcher(modem, x10.FrameGap(frameGapFlag), x10.DimSteps(dimStepsFlag))
	return err
}

func send(cmd x10.Command) error {
	receipt, err := disp.Send(cmd)
	if err == nil {
		err = receipt.Wait()
	}
	if err == nil && receipt.Steps() > 0 {
		fmt.Printf("applied %d dim steps\n", receipt.Steps())
	}
	return err
}

func main() {
	err := app.Parse(os.Args[1:])
	if err == nil {
		err = app.Run()
	}
	if disp != nil {
		disp.Close()
	}
	if modem != nil {
		modem.Close()
	}
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}
