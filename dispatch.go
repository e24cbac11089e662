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

package x10

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Transport is the power-line modem collaborator.  Frames handed to
// WriteFrame in order must reach the powerline in order; WriteFrame
// reports per-frame success or failure
type Transport interface {
	WriteFrame([]byte) error
}

// DefaultFrameGap is the pause between distinct frames of one command:
// three AC cycles at 60Hz, the silence X10 receivers require between an
// address group and a function group.  Repeats of a single frame are
// written back to back
const DefaultFrameGap = 50 * time.Millisecond

// DefaultQueueDepth bounds the number of pending commands before Send
// reports ErrQueueFull
const DefaultQueueDepth = 32

// EntryState is the lifecycle state of a queued command
type EntryState int

const (
	// Pending entries are queued but not yet picked up by the dispatcher
	Pending EntryState = iota

	// InFlight entries are being written to the transport.  An in-flight
	// entry always runs to completion; a partial X10 transmission is
	// worse than finishing it
	InFlight

	// Acked entries had every frame accepted by the transport
	Acked

	// Failed entries hit a transport error or were still pending when
	// the dispatcher closed
	Failed

	// Cancelled entries were withdrawn before dispatch and never touched
	// the transport
	Cancelled
)

func (es EntryState) String() string {
	switch es {
	case Pending:
		return "pending"
	case InFlight:
		return "in flight"
	case Acked:
		return "acked"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Receipt is the pending result handle returned by Send.  It resolves
// exactly once: to Acked, Failed or Cancelled
type Receipt struct {
	cmd    Command
	frames []Frame
	steps  int

	mu     sync.Mutex
	state  EntryState
	err    error
	doneCh chan struct{}
}

func newReceipt(cmd Command, frames []Frame, steps int) *Receipt {
	return &Receipt{
		cmd:    cmd,
		frames: frames,
		steps:  steps,
		doneCh: make(chan struct{}),
	}
}

// Command returns the originating command
func (r *Receipt) Command() Command { return r.cmd }

// Frames returns the frame sequence built for the command
func (r *Receipt) Frames() []Frame { return r.frames }

// Steps returns the resolved dim step count for Dim/Bright commands and
// zero for everything else.  It may differ from what the requested
// percentage implies because dim levels round to the transceiver's
// resolution
func (r *Receipt) Steps() int { return r.steps }

// Done returns a channel that is closed once the receipt resolves
func (r *Receipt) Done() <-chan struct{} { return r.doneCh }

// State returns the current lifecycle state
func (r *Receipt) State() EntryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the resolution error: nil for Acked, a TransportError or
// queue error for Failed and ErrQueueClosed style causes, without
// blocking
func (r *Receipt) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait blocks until the receipt resolves and returns its error
func (r *Receipt) Wait() error {
	<-r.doneCh
	return r.Err()
}

// Cancel withdraws a pending entry from the queue.  It returns true if
// the entry was still pending; entries already in flight run to
// completion and report false
func (r *Receipt) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Pending {
		return false
	}
	r.state = Cancelled
	close(r.doneCh)
	return true
}

// start transitions Pending to InFlight.  It reports false if the entry
// was cancelled first
func (r *Receipt) start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Pending {
		return false
	}
	r.state = InFlight
	return true
}

func (r *Receipt) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Acked || r.state == Failed || r.state == Cancelled {
		return
	}
	if err == nil {
		r.state = Acked
	} else {
		r.state = Failed
		r.err = err
	}
	close(r.doneCh)
}

// fail resolves an entry that never started (queue shutdown)
func (r *Receipt) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Pending {
		return
	}
	r.state = Failed
	r.err = err
	close(r.doneCh)
}

// Dispatcher owns the single consumer loop that serializes commands
// onto the transport.  Any number of goroutines may call Send; exactly
// one goroutine drains the queue so that frame ordering and inter-frame
// timing hold regardless of producer concurrency
type Dispatcher struct {
	transport Transport
	builder   Builder
	gap       time.Duration

	mu     sync.RWMutex
	closed bool
	sendCh chan *Receipt
	doneCh chan struct{}
}

// Option customizes a Dispatcher.  The mechanism follows
// https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis
type Option func(d *Dispatcher) error

// FrameGap sets the pause between distinct frames of one command
func FrameGap(gap time.Duration) Option {
	return func(d *Dispatcher) error {
		if gap < 0 {
			return fmt.Errorf("frame gap cannot be negative")
		}
		d.gap = gap
		return nil
	}
}

// QueueDepth bounds the number of pending commands
func QueueDepth(depth int) Option {
	return func(d *Dispatcher) error {
		if depth < 1 {
			return fmt.Errorf("queue depth must be at least 1")
		}
		d.sendCh = make(chan *Receipt, depth)
		return nil
	}
}

// DimSteps sets the dimming resolution used when converting percentages
// to step counts
func DimSteps(steps int) Option {
	return func(d *Dispatcher) error {
		if steps < 1 {
			return fmt.Errorf("dim resolution must be at least 1 step")
		}
		d.builder.DimSteps = steps
		return nil
	}
}

// NewDispatcher creates a Dispatcher bound to the given transport and
// starts its consumer loop
func NewDispatcher(transport Transport, options ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		transport: transport,
		builder:   Builder{DimSteps: DefaultDimSteps},
		gap:       DefaultFrameGap,
		sendCh:    make(chan *Receipt, DefaultQueueDepth),
		doneCh:    make(chan struct{}),
	}

	for _, o := range options {
		err := o(d)
		if err != nil {
			Log.Infof("error setting dispatcher option: %v", err)
			return nil, err
		}
	}

	go d.run()
	return d, nil
}

// DimSteps returns the configured dimming resolution
func (d *Dispatcher) DimSteps() int { return d.builder.DimSteps }

// Send validates the command, builds its frames and enqueues them.
// Validation errors (ErrInvalidAddress, ErrUnsupportedCommand,
// ErrMissingParameter, ErrInvalidParameter) are returned synchronously
// and nothing is queued.  Transport failures are reported later through
// the receipt.  Send never blocks on physical delivery
func (d *Dispatcher) Send(cmd Command) (*Receipt, error) {
	frames, err := d.builder.Build(cmd)
	if err != nil {
		return nil, err
	}

	steps := 0
	if cmd.Function.dimming() {
		steps = d.builder.Steps(cmd.Level)
	}
	receipt := newReceipt(cmd, frames, steps)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrQueueClosed
	}

	select {
	case d.sendCh <- receipt:
	default:
		return nil, ErrQueueFull
	}
	return receipt, nil
}

func (d *Dispatcher) run() {
	for receipt := range d.sendCh {
		if d.closing() {
			receipt.fail(ErrQueueClosed)
			continue
		}
		if !receipt.start() {
			// cancelled before dispatch
			continue
		}
		receipt.finish(d.transmit(receipt.frames))
	}
	close(d.doneCh)
}

// transmit writes one entry's frames in full and in order.  Repeats of
// one frame go back to back; distinct frames are separated by the
// configured gap
func (d *Dispatcher) transmit(frames []Frame) error {
	for i, frame := range frames {
		if i > 0 {
			time.Sleep(d.gap)
		}

		buf, err := frame.MarshalBinary()
		if err != nil {
			return TraceError(err)
		}

		Log.Tracef("TX %v %s", frame, hexDump("%02x", buf, " "))
		for n := 0; n < frame.Repeat; n++ {
			err = d.transport.WriteFrame(buf)
			if err != nil {
				return &TransportError{Cause: err}
			}
		}
	}
	return nil
}

func (d *Dispatcher) closing() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Close stops intake and shuts the consumer down deterministically: the
// entry in flight (if any) runs to completion, every entry still
// pending resolves as Failed with ErrQueueClosed, and Close returns
// once the consumer has exited
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.sendCh)
	d.mu.Unlock()

	<-d.doneCh
	return nil
}

func hexDump(format string, buf []byte, sep string) string {
	str := make([]string, len(buf))
	for i, b := range buf {
		str[i] = sprintf(format, b)
	}
	return strings.Join(str, sep)
}
