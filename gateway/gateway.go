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

// Package gateway exposes the x10 command surface to the rest of a
// home-automation installation over MQTT.  Commands arrive as JSON on
// <prefix>/cmd/<target>, the per-command outcome is published on
// <prefix>/result/<target> and inferred device levels are published on
// <prefix>/status/<address>
package gateway

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abates/x10"
)

const connectTimeout = 10 * time.Second

// Request is the JSON payload accepted on the command topic.  Level is
// a pointer so a missing dim parameter is distinguishable from zero
type Request struct {
	Cmd   string `json:"cmd"`
	Level *int   `json:"level,omitempty"`
	Data  byte   `json:"data,omitempty"`
	X10   byte   `json:"x10cmd,omitempty"`
}

// Result is published once the dispatch queue resolves a command
type Result struct {
	Cmd    string `json:"cmd"`
	Target string `json:"target"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Steps  int    `json:"steps,omitempty"`
}

// Status carries the inferred device level after a command completes
type Status struct {
	Level int `json:"level"`
}

// Service bridges an MQTT broker to a Dispatcher.  Its lifecycle is
// driven by the host: Start connects and subscribes, Stop drains the
// dispatch queue deterministically and disconnects
type Service struct {
	cfg        Config
	dispatcher *x10.Dispatcher
	client     mqtt.Client

	mu     sync.Mutex
	levels map[x10.Address]int

	// publish is indirected so state inference can be tested without a
	// broker
	publish func(topic string, retain bool, payload []byte)

	workers sync.WaitGroup
}

// New creates a Service bound to the given dispatcher.  Nothing
// connects until Start
func New(cfg Config, dispatcher *x10.Dispatcher) *Service {
	s := &Service{
		cfg:        cfg,
		dispatcher: dispatcher,
		levels:     make(map[x10.Address]int),
	}
	s.publish = s.mqttPublish
	return s
}

func (s *Service) mqttPublish(topic string, retain bool, payload []byte) {
	s.client.Publish(topic, byte(s.cfg.MQTT.QoS), retain, payload)
}

// Start connects to the broker and subscribes to the command topic
func (s *Service) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.MQTT.BrokerURL()).
		SetClientID(s.cfg.MQTT.ClientID).
		SetUsername(s.cfg.MQTT.Username).
		SetPassword(s.cfg.MQTT.Password).
		SetAutoReconnect(true)

	s.client = mqtt.NewClient(opts)
	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("timeout connecting to %s", s.cfg.MQTT.BrokerURL())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to %s: %w", s.cfg.MQTT.BrokerURL(), err)
	}

	topic := s.cfg.MQTT.TopicPrefix + "/cmd/+"
	token = s.client.Subscribe(topic, byte(s.cfg.MQTT.QoS), s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	x10.Log.Infof("gateway listening on %s", topic)
	return nil
}

// Stop closes the dispatch queue (pending commands resolve as failed),
// waits for in-flight result publishers and disconnects from the broker
func (s *Service) Stop() {
	s.dispatcher.Close()
	s.workers.Wait()
	if s.client != nil {
		s.client.Disconnect(250)
	}
}

func (s *Service) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	target := msg.Topic()[len(s.cfg.MQTT.TopicPrefix+"/cmd/"):]

	var req Request
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		x10.Log.Infof("bad command payload on %s: %v", msg.Topic(), err)
		s.publishResult(Result{Cmd: req.Cmd, Target: target, Status: "rejected", Error: err.Error()})
		return
	}

	cmd, err := commandFor(target, req)
	if err == nil {
		var receipt *x10.Receipt
		receipt, err = s.dispatcher.Send(cmd)
		if err == nil {
			s.workers.Add(1)
			go s.awaitResult(target, req, receipt)
			return
		}
	}

	x10.Log.Infof("rejected %q for %s: %v", req.Cmd, target, err)
	s.publishResult(Result{Cmd: req.Cmd, Target: target, Status: "rejected", Error: err.Error()})
}

func (s *Service) awaitResult(target string, req Request, receipt *x10.Receipt) {
	defer s.workers.Done()

	result := Result{Cmd: req.Cmd, Target: target, Status: "acked", Steps: receipt.Steps()}
	if err := receipt.Wait(); err != nil {
		result.Status = "failed"
		result.Error = err.Error()
	} else {
		s.updateLevels(receipt.Command(), receipt.Steps())
	}
	s.publishResult(result)
}

func (s *Service) publishResult(result Result) {
	payload, _ := json.Marshal(result)
	s.publish(s.cfg.MQTT.TopicPrefix+"/result/"+result.Target, false, payload)
}

// updateLevels infers device state from the completed command the same
// way the devices themselves react, then publishes it retained so late
// subscribers see the last known state
func (s *Service) updateLevels(cmd x10.Command, steps int) {
	s.mu.Lock()
	changed := make(map[x10.Address]int)

	switch cmd.Function {
	case x10.FuncOn:
		s.levels[cmd.Address] = 100
		changed[cmd.Address] = 100
	case x10.FuncOff:
		s.levels[cmd.Address] = 0
		changed[cmd.Address] = 0
	case x10.FuncDim, x10.FuncBright:
		base, tracked := s.levels[cmd.Address]
		if !tracked {
			base = 100
		}
		delta := steps * 100 / s.dispatcher.DimSteps()
		if cmd.Function == x10.FuncDim {
			delta = -delta
		}
		level := clamp(base + delta)
		s.levels[cmd.Address] = level
		changed[cmd.Address] = level
	case x10.FuncAllUnitsOff, x10.FuncAllLightsOff:
		for addr := range s.levels {
			if addr.House() == cmd.House {
				s.levels[addr] = 0
				changed[addr] = 0
			}
		}
	case x10.FuncAllLightsOn:
		for addr := range s.levels {
			if addr.House() == cmd.House {
				s.levels[addr] = 100
				changed[addr] = 100
			}
		}
	}
	s.mu.Unlock()

	for addr, level := range changed {
		payload, _ := json.Marshal(Status{Level: level})
		s.publish(s.cfg.MQTT.TopicPrefix+"/status/"+addr.String(), true, payload)
	}
}

// commandFor translates a topic target and request payload into a
// Command.  Addressed commands take a device target ("a1"); house-wide
// commands take a bare house letter ("a")
func commandFor(target string, req Request) (x10.Command, error) {
	if house, err := x10.ParseHouse(target); err == nil {
		switch req.Cmd {
		case "all_units_off":
			return x10.AllUnitsOff(house), nil
		case "all_lights_on":
			return x10.AllLightsOn(house), nil
		case "all_lights_off":
			return x10.AllLightsOff(house), nil
		case "hail":
			return x10.Hail(house), nil
		}
		return x10.Command{}, fmt.Errorf("%q is not a house-wide command", req.Cmd)
	}

	addr, err := x10.ParseAddress(target)
	if err != nil {
		return x10.Command{}, err
	}

	switch req.Cmd {
	case "on":
		return x10.On(addr), nil
	case "off":
		return x10.Off(addr), nil
	case "dim", "bright":
		if req.Level == nil {
			return x10.Command{}, x10.ErrMissingParameter
		}
		if req.Cmd == "dim" {
			return x10.Dim(addr, *req.Level), nil
		}
		return x10.Bright(addr, *req.Level), nil
	case "status":
		return x10.StatusRequest(addr), nil
	case "extended":
		return x10.Extended(addr, req.Data, req.X10), nil
	}
	return x10.Command{}, x10.ErrUnsupportedCommand
}

func clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
