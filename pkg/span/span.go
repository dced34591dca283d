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

// Package span locates the end of delimiter-balanced regions of raw text.
//
// The scan counts a single delimiter pair and nothing else. Delimiters inside
// string literals or comments are counted like any other, so callers must pick
// regions where every delimiter belongs to the nesting being measured.
package span

import (
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSpanNotBalanced is returned when the text ends before depth returns to zero.
	ErrSpanNotBalanced = errors.Base("span not balanced")

	// ErrInvalidScan is returned when the scan arguments violate their preconditions.
	ErrInvalidScan = errors.Base("invalid scan")
)

// LocateSpanEnd scans text from startOffset with initialDepth delimiters
// already open and returns the exclusive byte offset of the delimiter that
// closes the span.
func LocateSpanEnd(text string, startOffset, initialDepth int, open, close rune) (int, error) {
	if startOffset < 0 || startOffset > len(text) {
		return -1, errors.WithDetails(ErrInvalidScan, "reason", "start offset out of range", "offset", startOffset, "length", len(text))
	}
	if initialDepth <= 0 {
		return -1, errors.WithDetails(ErrInvalidScan, "reason", "initial depth must be positive", "depth", initialDepth)
	}
	if open == close {
		return -1, errors.WithDetails(ErrInvalidScan, "reason", "open and close delimiters are equal", "delimiter", string(open))
	}

	depth := initialDepth
	for i, r := range text[startOffset:] {
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				_, width := utf8.DecodeRuneInString(text[startOffset+i:])
				return startOffset + i + width, nil
			}
		}
	}

	return -1, errors.WithDetails(ErrSpanNotBalanced, "offset", startOffset, "depth", depth)
}

// NetDepth returns the number of open delimiters minus close delimiters in s.
func NetDepth(s string, open, close rune) int {
	depth := 0
	for _, r := range s {
		switch r {
		case open:
			depth++
		case close:
			depth--
		}
	}
	return depth
}
