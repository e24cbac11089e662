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
	"path"
	"runtime"
)

// Error couples a sentinel cause with the location it was raised
type Error struct {
	Cause error
	Frame runtime.Frame
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d in %q: %s", path.Base(e.Frame.File), e.Frame.Line, e.Frame.Function, e.Cause.Error())
}

// TraceError wraps cause with the caller's stack frame
func TraceError(cause error) error {
	pc := make([]uintptr, 10)
	runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc)
	frame, _ := frames.Next()

	return &Error{
		Cause: cause,
		Frame: frame,
	}
}

// TransportError is assigned to a dispatch receipt when the modem
// transport rejects a frame.  It matches ErrTransportFailure under
// IsError while preserving the transport's own error
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return sprintf("transport failure: %v", e.Cause)
}

// IsError reports whether err is, or wraps, the check error
func IsError(check, err error) bool {
	switch e := err.(type) {
	case *Error:
		return e.Cause == check
	case *TransportError:
		return check == ErrTransportFailure || e.Cause == check
	}
	return check == err
}
