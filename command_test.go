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

import "testing"

func TestCommandString(t *testing.T) {
	a1, _ := ParseAddress("A1")
	c9, _ := ParseAddress("C9")

	tests := []struct {
		cmd      Command
		expected string
	}{
		{On(a1), "A1 On"},
		{Off(c9), "C9 Off"},
		{Dim(a1, 50), "A1 Dim 50%"},
		{Bright(a1, 25), "A1 Bright 25%"},
		{AllUnitsOff(House('B')), "B All Units Off"},
		{AllLightsOn(House('P')), "P All Lights On"},
		{Extended(a1, 0x31, 0x55), "A1 Extended Code 0x31 0x55"},
	}

	for i, test := range tests {
		if test.cmd.String() != test.expected {
			t.Errorf("tests[%d] expected %q got %q", i, test.expected, test.cmd.String())
		}
	}
}

func TestCommandValidate(t *testing.T) {
	a1, _ := ParseAddress("A1")

	tests := []struct {
		name string
		cmd  Command
		err  error
	}{
		{"on", On(a1), nil},
		{"dim", Dim(a1, 50), nil},
		{"dim zero", Dim(a1, 0), nil},
		{"dim over", Dim(a1, 101), ErrInvalidParameter},
		{"hail", Hail(House('A')), nil},
		{"status", StatusRequest(a1), nil},
		{"extended", Extended(a1, 0, 0), nil},
		{"house-wide without house", Command{Function: FuncAllUnitsOff}, ErrInvalidHouse},
		{"switch with level", Command{Function: FuncOn, addressed: true, hasLevel: true}, ErrInvalidParameter},
		{"switch with payload", Command{Function: FuncOff, addressed: true, hasData: true}, ErrInvalidParameter},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.cmd.validate(); err != test.err {
				t.Errorf("expected %v got %v", test.err, err)
			}
		})
	}
}
