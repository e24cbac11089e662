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

package plm

import (
	"errors"
	"sync"
	"time"
)

// Modem response bytes
const (
	// Ack is sent by the modem after a frame has been put on the
	// powerline
	Ack byte = 0x06

	// Nak is sent when the modem could not transmit the frame
	Nak byte = 0x15
)

var (
	// ErrNak indicates the modem refused or failed to transmit a frame
	ErrNak = errors.New("modem responded with a NAK")

	// ErrAckTimeout indicates no response arrived within the modem
	// timeout
	ErrAckTimeout = errors.New("timeout waiting for ack from the modem")

	// ErrClosed is returned for writes after the modem stream has ended
	ErrClosed = errors.New("modem connection closed")
)

// Modem implements the x10.Transport contract over a Port: write the
// frame bytes, wait for a single ack or nak, and pace successive writes
// so frames are not injected faster than the powerline carries them
type Modem struct {
	sync.Mutex
	port       *Port
	timeout    time.Duration
	writeDelay time.Duration
	nextWrite  time.Time
}

// Option customizes the Modem
type Option func(m *Modem) error

// WriteDelay overrides the pause enforced between consecutive frame
// writes.  The default of 0 computes the pause from the frame length
// (each byte is eight powerline half-cycles)
func WriteDelay(d time.Duration) Option {
	return func(m *Modem) error {
		m.writeDelay = d
		return nil
	}
}

// New creates a Modem on the given port
func New(port *Port, timeout time.Duration, options ...Option) (*Modem, error) {
	modem := &Modem{
		port:    port,
		timeout: timeout,
	}

	for _, o := range options {
		err := o(modem)
		if err != nil {
			return nil, err
		}
	}
	return modem, nil
}

// WriteFrame satisfies the x10.Transport interface.  It blocks until
// the modem acknowledges the frame or the timeout elapses
func (m *Modem) WriteFrame(buf []byte) error {
	m.Lock()
	defer m.Unlock()

	if time.Now().Before(m.nextWrite) {
		<-time.After(time.Until(m.nextWrite))
	}

	m.port.Write(buf)

	writeDelay := m.writeDelay
	if writeDelay == 0 {
		// eight half-cycles per byte at 60Hz
		writeDelay = time.Second * time.Duration(4*len(buf)) / 60
	}
	m.nextWrite = time.Now().Add(writeDelay)

	select {
	case b, ok := <-m.port.RecvCh():
		if !ok {
			return ErrClosed
		}
		if b == Nak {
			return ErrNak
		}
		return nil
	case <-time.After(m.timeout):
		return ErrAckTimeout
	}
}

// Close shuts down the underlying port
func (m *Modem) Close() error {
	return m.port.Close()
}
