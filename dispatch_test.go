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
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

type testTransport struct {
	mu     sync.Mutex
	frames [][]byte
	err    error

	// gate, when set, blocks WriteFrame until the channel is closed
	gate chan struct{}

	// started receives one value per WriteFrame call
	started chan struct{}
}

func (tt *testTransport) WriteFrame(buf []byte) error {
	if tt.started != nil {
		select {
		case tt.started <- struct{}{}:
		default:
		}
	}
	if tt.gate != nil {
		<-tt.gate
	}

	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.err != nil {
		return tt.err
	}
	frame := make([]byte, len(buf))
	copy(frame, buf)
	tt.frames = append(tt.frames, frame)
	return nil
}

func (tt *testTransport) written() [][]byte {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return append([][]byte{}, tt.frames...)
}

func TestDispatcherSend(t *testing.T) {
	a1, _ := ParseAddress("A1")
	transport := &testTransport{}
	d, _ := NewDispatcher(transport, FrameGap(0))
	defer d.Close()

	receipt, err := d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = receipt.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.State() != Acked {
		t.Errorf("expected state %v got %v", Acked, receipt.State())
	}

	addrFrame, _ := Frame{Type: AddressFrame, HouseCode: 0x06, KeyCode: 0x06}.MarshalBinary()
	funcFrame, _ := Frame{Type: FunctionFrame, HouseCode: 0x06, KeyCode: 0x02}.MarshalBinary()
	expected := [][]byte{addrFrame, addrFrame, funcFrame, funcFrame}

	frames := transport.written()
	if len(frames) != len(expected) {
		t.Fatalf("expected %d frames got %d", len(expected), len(frames))
	}
	for i, frame := range frames {
		if !bytes.Equal(frame, expected[i]) {
			t.Errorf("frames[%d] expected %x got %x", i, expected[i], frame)
		}
	}
}

func TestDispatcherDimZero(t *testing.T) {
	a1, _ := ParseAddress("A1")
	transport := &testTransport{}
	d, _ := NewDispatcher(transport, FrameGap(0), DimSteps(16))
	defer d.Close()

	receipt, err := d.Send(Dim(a1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err = receipt.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Steps() != 0 {
		t.Errorf("expected 0 steps got %d", receipt.Steps())
	}

	// address phase only; the no-op is still observable on the wire
	if frames := transport.written(); len(frames) != 2 {
		t.Errorf("expected 2 address frames got %d", len(frames))
	}
}

func TestDispatcherValidation(t *testing.T) {
	a1, _ := ParseAddress("A1")
	transport := &testTransport{}
	d, _ := NewDispatcher(transport, FrameGap(0))
	defer d.Close()

	tests := []struct {
		name string
		cmd  Command
		err  error
	}{
		{"unsupported", Command{Function: FuncStatusOn, addressed: true}, ErrUnsupportedCommand},
		{"missing parameter", Command{Function: FuncDim, addressed: true}, ErrMissingParameter},
		{"invalid parameter", Dim(a1, 200), ErrInvalidParameter},
		{"no address", Command{Function: FuncOn}, ErrInvalidAddress},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			receipt, err := d.Send(test.cmd)
			if err != test.err {
				t.Errorf("expected %v got %v", test.err, err)
			}
			if receipt != nil {
				t.Errorf("expected no receipt for a rejected command")
			}
		})
	}

	// rejected commands never touch the queue or the transport
	if frames := transport.written(); len(frames) != 0 {
		t.Errorf("expected no frames got %d", len(frames))
	}
}

func TestDispatcherOrdering(t *testing.T) {
	transport := &testTransport{}
	d, _ := NewDispatcher(transport, FrameGap(0))
	defer d.Close()

	const senders = 16
	var wg sync.WaitGroup
	for unit := 1; unit <= senders; unit++ {
		addr, _ := NewAddress('A', unit)
		wg.Add(1)
		go func(addr Address) {
			defer wg.Done()
			receipt, err := d.Send(On(addr))
			if err != nil {
				t.Errorf("send %v failed: %v", addr, err)
				return
			}
			receipt.Wait()
		}(addr)
	}
	wg.Wait()

	frames := transport.written()
	if len(frames) != senders*4 {
		t.Fatalf("expected %d frames got %d", senders*4, len(frames))
	}

	// every command's frames must be contiguous and in address,
	// address, function, function order with no interleaving
	seen := make(map[string]bool)
	for i := 0; i < len(frames); i += 4 {
		if !bytes.Equal(frames[i], frames[i+1]) || !bytes.Equal(frames[i+2], frames[i+3]) {
			t.Errorf("frames[%d:%d] interleaved", i, i+4)
		}
		key := string(frames[i])
		if seen[key] {
			t.Errorf("address frame %x transmitted by two entries", frames[i])
		}
		seen[key] = true
	}
	if len(seen) != senders {
		t.Errorf("expected %d distinct address groups got %d", senders, len(seen))
	}
}

func TestDispatcherCancel(t *testing.T) {
	a1, _ := ParseAddress("A1")
	b2, _ := ParseAddress("B2")
	transport := &testTransport{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	d, _ := NewDispatcher(transport, FrameGap(0))
	defer d.Close()

	first, err := d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-transport.started // first entry is now in flight

	second, err := d.Send(On(b2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.Cancel() {
		t.Errorf("expected cancel of a pending entry to succeed")
	}
	if second.Cancel() {
		t.Errorf("expected second cancel to report false")
	}
	if second.State() != Cancelled {
		t.Errorf("expected state %v got %v", Cancelled, second.State())
	}

	// an in-flight entry cannot be cancelled
	if first.Cancel() {
		t.Errorf("expected cancel of an in-flight entry to fail")
	}

	close(transport.gate)
	if err = first.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// give the dispatcher a chance to (incorrectly) transmit the
	// cancelled entry before checking the wire
	d.Close()
	for _, frame := range transport.written() {
		addrFrame, _ := Frame{Type: AddressFrame, HouseCode: b2.HouseCode(), KeyCode: b2.UnitCode()}.MarshalBinary()
		if bytes.Equal(frame, addrFrame) {
			t.Errorf("cancelled entry reached the transport")
		}
	}
}

func TestDispatcherTransportFailure(t *testing.T) {
	a1, _ := ParseAddress("A1")
	writeErr := errors.New("write failed")
	transport := &testTransport{err: writeErr}
	d, _ := NewDispatcher(transport, FrameGap(0))
	defer d.Close()

	receipt, err := d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = receipt.Wait()
	if err == nil {
		t.Fatalf("expected transport failure")
	}
	if receipt.State() != Failed {
		t.Errorf("expected state %v got %v", Failed, receipt.State())
	}
	if !IsError(ErrTransportFailure, err) {
		t.Errorf("expected transport failure got %v", err)
	}
	if !IsError(writeErr, err) {
		t.Errorf("expected underlying cause to be preserved, got %v", err)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	a1, _ := ParseAddress("A1")
	transport := &testTransport{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	d, _ := NewDispatcher(transport, FrameGap(0), QueueDepth(1))

	_, err := d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-transport.started // first entry out of the queue and in flight

	_, err = d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = d.Send(On(a1))
	if err != ErrQueueFull {
		t.Errorf("expected %v got %v", ErrQueueFull, err)
	}

	close(transport.gate)
	d.Close()
}

func TestDispatcherClose(t *testing.T) {
	a1, _ := ParseAddress("A1")
	b2, _ := ParseAddress("B2")
	transport := &testTransport{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	d, _ := NewDispatcher(transport, FrameGap(0))

	first, err := d.Send(On(a1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-transport.started

	second, err := d.Send(On(b2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closeCh := make(chan struct{})
	go func() {
		d.Close()
		close(closeCh)
	}()

	// wait for Close to stop intake
	for {
		_, err = d.Send(On(a1))
		if err == ErrQueueClosed {
			break
		}
		time.Sleep(time.Millisecond)
	}

	close(transport.gate)
	<-closeCh

	// the in-flight entry ran to completion, the pending one resolved
	// as failed without touching the transport
	if err = first.Wait(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err = second.Wait(); err != ErrQueueClosed {
		t.Errorf("expected %v got %v", ErrQueueClosed, err)
	}

	if err = d.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}
