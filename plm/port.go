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

// Package plm adapts a byte-stream power-line modem into the x10
// Transport contract: frames are written as raw bytes and the modem
// answers each frame with a single ack or nak byte.  Model specific
// modem protocols (command headers, checksums, link databases) are out
// of scope; anything that speaks write-bytes/read-ack can sit behind
// the Port
package plm

import (
	"bufio"
	"io"

	"github.com/abates/x10"
)

// Port runs the read and write loops over the modem's byte stream.
// Writes are serialized through a channel and responses are delivered
// one byte at a time on RecvCh
type Port struct {
	in  *bufio.Reader
	out io.Writer

	sendCh chan []byte
	recvCh chan byte
}

// NewPort wraps the given byte stream (usually a serial port) and
// starts the port's read and write loops
func NewPort(readWriter io.ReadWriter) *Port {
	port := &Port{
		in:  bufio.NewReader(readWriter),
		out: readWriter,

		sendCh: make(chan []byte, 1),
		recvCh: make(chan byte, 1),
	}
	go port.readLoop()
	go port.writeLoop()
	return port
}

// Write queues buf for the write loop
func (port *Port) Write(buf []byte) {
	port.sendCh <- buf
}

// RecvCh delivers response bytes from the modem.  The channel is closed
// when the underlying stream reaches EOF or fails
func (port *Port) RecvCh() <-chan byte {
	return port.recvCh
}

func (port *Port) readLoop() {
	for {
		b, err := port.in.ReadByte()
		if err != nil {
			if err != io.EOF {
				x10.Log.Infof("Failed to read from modem: %v", err)
			}
			close(port.recvCh)
			return
		}
		x10.Log.Tracef("RX %02x", b)
		port.recvCh <- b
	}
}

func (port *Port) writeLoop() {
	for buf := range port.sendCh {
		_, err := port.out.Write(buf)
		if err == nil {
			x10.Log.Tracef("TX %02x", buf)
		} else {
			x10.Log.Infof("Failed to write: %v", err)
		}
	}

	if closer, ok := port.out.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			x10.Log.Infof("Failed to close io writer: %v", err)
		}
	}
}

// Close stops the write loop and closes the underlying stream if it is
// an io.Closer; the read loop exits when the stream reports EOF
func (port *Port) Close() error {
	close(port.sendCh)
	return nil
}
