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

package gateway

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abates/x10"
)

func TestConfigDefault(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}

	if config.Serial.Port != "/dev/ttyUSB0" {
		t.Errorf("unexpected serial port %q", config.Serial.Port)
	}
	if config.Serial.Timeout() != 3*time.Second {
		t.Errorf("unexpected serial timeout %v", config.Serial.Timeout())
	}
	if config.MQTT.BrokerURL() != "tcp://localhost:1883" {
		t.Errorf("unexpected broker url %q", config.MQTT.BrokerURL())
	}
	if config.X10.DimSteps != x10.DefaultDimSteps {
		t.Errorf("expected dim steps %d got %d", x10.DefaultDimSteps, config.X10.DimSteps)
	}
}

func TestConfigLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
serial:
  port: /dev/ttyS1
mqtt:
  host: broker.local
  topic_prefix: home/x10
x10:
  dim_steps: 16
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// explicit fields override the defaults, everything else keeps them
	if config.Serial.Port != "/dev/ttyS1" {
		t.Errorf("unexpected serial port %q", config.Serial.Port)
	}
	if config.Serial.Baud != 4800 {
		t.Errorf("expected default baud got %d", config.Serial.Baud)
	}
	if config.MQTT.BrokerURL() != "tcp://broker.local:1883" {
		t.Errorf("unexpected broker url %q", config.MQTT.BrokerURL())
	}
	if config.MQTT.TopicPrefix != "home/x10" {
		t.Errorf("unexpected topic prefix %q", config.MQTT.TopicPrefix)
	}
	if config.X10.DimSteps != 16 {
		t.Errorf("expected dim steps 16 got %d", config.X10.DimSteps)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Errorf("expected failure")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty serial port", func(c *Config) { c.Serial.Port = "" }},
		{"zero baud", func(c *Config) { c.Serial.Baud = 0 }},
		{"empty mqtt host", func(c *Config) { c.MQTT.Host = "" }},
		{"mqtt port out of range", func(c *Config) { c.MQTT.Port = 70000 }},
		{"bad qos", func(c *Config) { c.MQTT.QoS = 3 }},
		{"zero dim steps", func(c *Config) { c.X10.DimSteps = 0 }},
		{"negative frame gap", func(c *Config) { c.X10.FrameGapMs = -1 }},
		{"zero queue depth", func(c *Config) { c.X10.QueueDepth = 0 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := Default()
			test.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Errorf("expected failure")
			}
		})
	}
}

func TestX10ConfigOptions(t *testing.T) {
	options := Default().X10.Options()
	if len(options) != 3 {
		t.Errorf("expected 3 options got %d", len(options))
	}
}
