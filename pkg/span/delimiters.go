// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package span

import (
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🔣 Delimiters is a matched open/close pair
type Delimiters struct {
	Open  rune
	Close rune
}

var (
	Parens   = Delimiters{Open: '(', Close: ')'}
	Brackets = Delimiters{Open: '[', Close: ']'}
	Braces   = Delimiters{Open: '{', Close: '}'}
	Angles   = Delimiters{Open: '<', Close: '>'}
)

// 🔍 ParseDelimiters parses a two-character pair such as "()" or "{}".
// An empty string yields Parens.
func ParseDelimiters(s string) (Delimiters, error) {
	if s == "" {
		return Parens, nil
	}
	if utf8.RuneCountInString(s) != 2 {
		return Delimiters{}, errors.Errorf("delimiters %q: expected exactly two characters", s)
	}
	open, size := utf8.DecodeRuneInString(s)
	close, _ := utf8.DecodeRuneInString(s[size:])
	if open == close {
		return Delimiters{}, errors.Errorf("delimiters %q: open and close must differ", s)
	}
	return Delimiters{Open: open, Close: close}, nil
}

// String returns the pair as written in config files.
func (d Delimiters) String() string {
	return string(d.Open) + string(d.Close)
}

// IsZero reports whether no delimiters were set.
func (d Delimiters) IsZero() bool {
	return d.Open == 0 && d.Close == 0
}

// 🎯 Locate is LocateSpanEnd with the pair taken from d.
func (d Delimiters) Locate(text string, startOffset, initialDepth int) (int, error) {
	return LocateSpanEnd(text, startOffset, initialDepth, d.Open, d.Close)
}

// NetDepth is NetDepth with the pair taken from d.
func (d Delimiters) NetDepth(s string) int {
	return NetDepth(s, d.Open, d.Close)
}
