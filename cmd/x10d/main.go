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

// x10d runs the MQTT gateway: it owns the serial modem, the dispatch
// queue and the broker connection, and translates command topics into
// powerline traffic until it is signalled to stop
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kirsle/configdir"
	"github.com/tarm/serial"

	"github.com/abates/x10"
	"github.com/abates/x10/gateway"
	"github.com/abates/x10/plm"
)

func main() {
	defaultConfig := filepath.Join(configdir.LocalConfig("x10"), "config.yaml")
	configFlag := flag.String("config", defaultConfig, "path to the gateway config file")
	logLevelFlag := x10.LogLevel(x10.LevelInfo)
	flag.Var(&logLevelFlag, "log", "Log Level {none|info|debug|trace}")
	flag.Parse()

	x10.SetLogLevel(logLevelFlag, os.Stderr)

	cfg, err := gateway.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := serial.OpenPort(&serial.Config{Name: cfg.Serial.Port, Baud: cfg.Serial.Baud})
	if err != nil {
		log.Fatalf("Failed to open serial port %s: %v", cfg.Serial.Port, err)
	}

	modem, err := plm.New(plm.NewPort(s), cfg.Serial.Timeout())
	if err != nil {
		log.Fatalf("Failed to initialize modem: %v", err)
	}

	dispatcher, err := x10.NewDispatcher(modem, cfg.X10.Options()...)
	if err != nil {
		log.Fatalf("Failed to start dispatcher: %v", err)
	}

	service := gateway.New(cfg, dispatcher)
	err = service.Start()
	if err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	x10.Log.Infof("shutting down")
	service.Stop()
	modem.Close()
}
