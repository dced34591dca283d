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

package text

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/span"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoMatch is returned when a required literal rule finds nothing to replace.
	ErrNoMatch = errors.Base("literal text not found")

	// ErrAnchorNotFound is returned when a required span rule's anchor is missing.
	ErrAnchorNotFound = errors.Base("span anchor not found")
)

// RuleKind selects how a rule finds the text it replaces
type RuleKind string

const (
	// KindLiteral replaces every occurrence of FromText
	KindLiteral RuleKind = "literal"

	// KindSpan replaces the balanced span that starts at the first Anchor
	KindSpan RuleKind = "span"
)

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// Kind defaults to KindLiteral when empty
	Kind RuleKind

	// FromText is the text to replace (literal rules)
	FromText string

	// Anchor marks the start of the span (span rules). The replaced region
	// runs from the start of the anchor to the end of the balanced span.
	Anchor string

	// Delimiters is the pair counted while scanning (span rules, default parens)
	Delimiters span.Delimiters

	// Depth is the nesting already open at the end of Anchor. Zero means
	// derive it from the anchor's own delimiters.
	Depth int

	// ToText is the replacement text
	ToText string

	// FileFilterGlob restricts the rule to matching paths; empty matches all
	FileFilterGlob string

	// Optional rules are skipped instead of failing when they find nothing
	Optional bool

	// AllowApplied treats a rule that finds nothing as already applied when
	// the content holds its non-empty ToText
	AllowApplied bool
}

// EffectiveKind returns the rule kind with the default applied
func (r ReplacementRule) EffectiveKind() RuleKind {
	if r.Kind == "" {
		return KindLiteral
	}
	return r.Kind
}

// EffectiveDelimiters returns the delimiter pair with the default applied
func (r ReplacementRule) EffectiveDelimiters() span.Delimiters {
	if r.Delimiters.IsZero() {
		return span.Parens
	}
	return r.Delimiters
}

// EffectiveDepth returns the initial scan depth for a span rule
func (r ReplacementRule) EffectiveDepth() int {
	if r.Depth != 0 {
		return r.Depth
	}
	return r.EffectiveDelimiters().NetDepth(r.Anchor)
}

// alreadyApplied reports whether a rule that found nothing left its
// replacement behind in content
func (r ReplacementRule) alreadyApplied(content string) bool {
	return r.AllowApplied && r.ToText != "" && strings.Contains(content, r.ToText)
}

// AppliesTo reports whether the rule's file filter matches path
func (r ReplacementRule) AppliesTo(path string) bool {
	if r.FileFilterGlob == "" {
		return true
	}
	matched, err := doublestar.Match(r.FileFilterGlob, filepath.ToSlash(path))
	return err == nil && matched
}

// RuleOutcome records what a single rule did to the content
type RuleOutcome struct {
	Index   int
	Kind    RuleKind
	Matches int
	Skipped bool

	// Applied is set when the rule found nothing because its replacement is
	// already in place
	Applied bool

	// Start and End bound the replaced region of a span rule, in the
	// content as it was before the rule ran
	Start int
	End   int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte

	// Outcomes has one entry per rule that applied to the file
	Outcomes []RuleOutcome
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules whose filter matches path, in order.
	// Any failing rule aborts the whole replacement.
	ReplaceText(ctx context.Context, path string, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
