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
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var _ TextReplacer = (*SimpleTextReplacer)(nil)

// SimpleTextReplacer implements TextReplacer with literal and span rules
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, path string, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	logger := zerolog.Ctx(ctx)

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := string(originalContent)
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		if !rule.AppliesTo(path) {
			logger.Debug().Int("rule", i).Str("path", path).Str("glob", rule.FileFilterGlob).Msg("rule filtered out")
			continue
		}

		var outcome RuleOutcome
		switch rule.EffectiveKind() {
		case KindLiteral:
			current, outcome, err = applyLiteral(current, rule)
		case KindSpan:
			current, outcome, err = applySpan(current, rule)
		default:
			err = errors.Errorf("unknown rule kind %q", rule.Kind)
		}
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		outcome.Index = i
		result.Outcomes = append(result.Outcomes, outcome)
		result.ReplacementCount += outcome.Matches

		logger.Debug().
			Int("rule", i).
			Str("kind", string(outcome.Kind)).
			Int("matches", outcome.Matches).
			Bool("skipped", outcome.Skipped).
			Bool("applied", outcome.Applied).
			Msg("rule applied")
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != string(originalContent)
	return result, nil
}

func applyLiteral(content string, rule ReplacementRule) (string, RuleOutcome, error) {
	outcome := RuleOutcome{Kind: KindLiteral, Start: -1, End: -1}

	count := strings.Count(content, rule.FromText)
	if count == 0 {
		if rule.alreadyApplied(content) {
			outcome.Skipped = true
			outcome.Applied = true
			return content, outcome, nil
		}
		if rule.Optional {
			outcome.Skipped = true
			return content, outcome, nil
		}
		return content, outcome, errors.WithDetails(ErrNoMatch, "text", abbreviate(rule.FromText))
	}

	outcome.Matches = count
	return strings.ReplaceAll(content, rule.FromText, rule.ToText), outcome, nil
}

func applySpan(content string, rule ReplacementRule) (string, RuleOutcome, error) {
	outcome := RuleOutcome{Kind: KindSpan, Start: -1, End: -1}

	start := strings.Index(content, rule.Anchor)
	if start == -1 {
		if rule.alreadyApplied(content) {
			outcome.Skipped = true
			outcome.Applied = true
			return content, outcome, nil
		}
		if rule.Optional {
			outcome.Skipped = true
			return content, outcome, nil
		}
		return content, outcome, errors.WithDetails(ErrAnchorNotFound, "anchor", abbreviate(rule.Anchor))
	}

	end, err := rule.EffectiveDelimiters().Locate(content, start+len(rule.Anchor), rule.EffectiveDepth())
	if err != nil {
		return content, outcome, errors.Errorf("locating end of span at %q: %w", abbreviate(rule.Anchor), err)
	}

	outcome.Matches = 1
	outcome.Start = start
	outcome.End = end
	return content[:start] + rule.ToText + content[end:], outcome, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		switch rule.EffectiveKind() {
		case KindLiteral:
			if rule.FromText == "" {
				return errors.Errorf("rule %d: from_text is required", i)
			}
		case KindSpan:
			if rule.Anchor == "" {
				return errors.Errorf("rule %d: anchor is required", i)
			}
			d := rule.EffectiveDelimiters()
			if d.Open == d.Close {
				return errors.Errorf("rule %d: delimiters %q must differ", i, d.String())
			}
			if depth := rule.EffectiveDepth(); depth <= 0 {
				return errors.Errorf("rule %d: depth must be positive, anchor %q opens %d", i, abbreviate(rule.Anchor), depth)
			}
		default:
			return errors.Errorf("rule %d: unknown rule kind %q", i, rule.Kind)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file filter glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}

// abbreviate keeps error messages readable when rules carry whole blocks
func abbreviate(s string) string {
	const max = 48
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < max {
		return s[:i] + "..."
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
