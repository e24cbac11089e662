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
	"fmt"
	"os"
	"time"

	"github.com/abates/x10"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the gateway daemon, loaded from
// YAML
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	X10    X10Config    `yaml:"x10"`
}

// SerialConfig locates the modem's serial port
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	// TimeoutMs is how long to wait for the modem to ack a frame
	TimeoutMs int `yaml:"timeout_ms"`
}

// MQTTConfig contains broker connection settings
type MQTTConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         int    `yaml:"qos"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// X10Config tunes the command/frame pipeline for the deployment's
// transceivers
type X10Config struct {
	// DimSteps is the dimming resolution of the installed transceivers
	DimSteps int `yaml:"dim_steps"`

	// FrameGapMs is the pause between distinct frames of one command
	FrameGapMs int `yaml:"frame_gap_ms"`

	// QueueDepth bounds the number of commands waiting for the powerline
	QueueDepth int `yaml:"queue_depth"`
}

// Default returns the configuration used when fields are absent from
// the YAML file
func Default() Config {
	return Config{
		Serial: SerialConfig{
			Port:      "/dev/ttyUSB0",
			Baud:      4800,
			TimeoutMs: 3000,
		},
		MQTT: MQTTConfig{
			Host:        "localhost",
			Port:        1883,
			ClientID:    "x10-gateway",
			QoS:         1,
			TopicPrefix: "x10",
		},
		X10: X10Config{
			DimSteps:   x10.DefaultDimSteps,
			FrameGapMs: int(x10.DefaultFrameGap / time.Millisecond),
			QueueDepth: x10.DefaultQueueDepth,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates
// the result
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("parsing config: %w", err)
	}
	return config, config.Validate()
}

// Validate checks the ranges the pipeline depends on
func (c *Config) Validate() error {
	if c.Serial.Port == "" {
		return fmt.Errorf("serial.port must be set")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive")
	}
	if c.MQTT.Host == "" {
		return fmt.Errorf("mqtt.host must be set")
	}
	if c.MQTT.Port <= 0 || 65535 < c.MQTT.Port {
		return fmt.Errorf("mqtt.port %d out of range", c.MQTT.Port)
	}
	if c.MQTT.QoS < 0 || 2 < c.MQTT.QoS {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	if c.X10.DimSteps < 1 {
		return fmt.Errorf("x10.dim_steps must be at least 1")
	}
	if c.X10.FrameGapMs < 0 {
		return fmt.Errorf("x10.frame_gap_ms cannot be negative")
	}
	if c.X10.QueueDepth < 1 {
		return fmt.Errorf("x10.queue_depth must be at least 1")
	}
	return nil
}

// Timeout returns the serial ack timeout as a duration
func (c SerialConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// BrokerURL renders the paho broker address
func (c MQTTConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// Options converts the X10 section into dispatcher options
func (c X10Config) Options() []x10.Option {
	return []x10.Option{
		x10.DimSteps(c.DimSteps),
		x10.FrameGap(time.Duration(c.FrameGapMs) * time.Millisecond),
		x10.QueueDepth(c.QueueDepth),
	}
}
