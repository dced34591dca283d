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
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/span"
	"gitlab.com/tozd/go/errors"
)

const pageSource = `'use client';
import React, { useState, useCallback } from 'react';

export default function Page() {
  return (
    <div>
      {messages.map((message, index) => (
        <div key={index} onClick={() => copy(index)}>
          {render(message)}
        </div>
      ))}
      {isLoading && (<Spinner />)}
    </div>
  );
}
`

const pageWant = `'use client';
import React, { useState } from 'react';

export default function Page() {
  return (
    <div>
      {messages.map((message, index) => (
        <MessageItem message={message} index={index} />
      ))}
      {isLoading && (<Spinner />)}
    </div>
  );
}
`

func TestSimpleTextReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantError    error
		wantModified bool
	}{
		{
			name:    "simple_replacement",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "multiple_replacements",
			content: "Hello World World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe"},
			},
			want:         "Hello Universe Universe",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "multiple_rules",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Hello", ToText: "Hi"},
				{FromText: "World", ToText: "Universe"},
			},
			want:         "Hi Universe",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "literal_no_match_fails",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Goodbye", ToText: "Hi"},
			},
			wantError: ErrNoMatch,
		},
		{
			name:    "optional_literal_no_match",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Goodbye", ToText: "Hi", Optional: true},
			},
			want:         "Hello World",
			wantModified: false,
		},
		{
			name:         "empty_rules",
			content:      "Hello World",
			rules:        []ReplacementRule{},
			want:         "Hello World",
			wantModified: false,
		},
		{
			name:    "span_replacement",
			content: "call(a, f(b), c); next()",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "call(", ToText: "call()"},
			},
			want:         "call(); next()",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "span_with_braces",
			content: "if (x) { a { b } c } else {}",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "if (x) {", Delimiters: span.Braces, ToText: "if (x) {}"},
			},
			want:         "if (x) {} else {}",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "span_explicit_depth",
			content: "x)) tail",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "x", Depth: 2, ToText: "y"},
			},
			want:         "y tail",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "span_anchor_missing",
			content: "nothing here",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "call(", ToText: ""},
			},
			wantError: ErrAnchorNotFound,
		},
		{
			name:    "optional_span_anchor_missing",
			content: "nothing here",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "call(", Optional: true},
			},
			want: "nothing here",
		},
		{
			name:    "span_not_balanced",
			content: "call(a, (b)",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "call(", ToText: "x"},
			},
			wantError: span.ErrSpanNotBalanced,
		},
		{
			name:    "failure_aborts_earlier_rules",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "Hello", ToText: "Hi"},
				{Kind: KindSpan, Anchor: "(", ToText: ""},
			},
			wantError: ErrAnchorNotFound,
		},
		{
			name:    "file_filter_skips_rule",
			path:    "app/page.css",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe", FileFilterGlob: "**/*.js"},
			},
			want: "Hello World",
		},
		{
			name:    "file_filter_matches_rule",
			path:    "app/page.js",
			content: "Hello World",
			rules: []ReplacementRule{
				{FromText: "World", ToText: "Universe", FileFilterGlob: "**/*.js"},
			},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "page_refactor",
			path:    "app/page.js",
			content: pageSource,
			rules: []ReplacementRule{
				{
					FromText: "import React, { useState, useCallback } from 'react';",
					ToText:   "import React, { useState } from 'react';",
				},
				{
					Kind:   KindSpan,
					Anchor: "messages.map((message, index) => (",
					ToText: "messages.map((message, index) => (\n        <MessageItem message={message} index={index} />\n      ))",
				},
			},
			want:         pageWant,
			wantCount:    2,
			wantModified: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewSimpleTextReplacer()
			result, err := replacer.ReplaceText(
				context.Background(),
				tt.path,
				strings.NewReader(tt.content),
				tt.rules,
			)

			if tt.wantError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantError), "got %v", err)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestSimpleTextReplacer_SpanOutcome(t *testing.T) {
	replacer := NewSimpleTextReplacer()
	result, err := replacer.ReplaceText(context.Background(), "", strings.NewReader("a(b(c)d)e"), []ReplacementRule{
		{Kind: KindSpan, Anchor: "a(", ToText: "A"},
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, RuleOutcome{Index: 0, Kind: KindSpan, Matches: 1, Start: 0, End: 8}, result.Outcomes[0])
	assert.Equal(t, "Ae", string(result.ModifiedContent))
}

func TestSimpleTextReplacer_ReplacementCharDelimiter(t *testing.T) {
	replacer := NewSimpleTextReplacer()
	result, err := replacer.ReplaceText(context.Background(), "", strings.NewReader("a(\xff tail"), []ReplacementRule{
		{Kind: KindSpan, Anchor: "a(", Delimiters: span.Delimiters{Open: '(', Close: utf8.RuneError}, ToText: "X"},
	})
	require.NoError(t, err)
	assert.Equal(t, "X tail", string(result.ModifiedContent))
	assert.Equal(t, 3, result.Outcomes[0].End)
}

func TestSimpleTextReplacer_AllowApplied(t *testing.T) {
	patched := "import React, { useState } from 'react';\n{items.map((item) => (<Item item={item} />))}\n"

	tests := []struct {
		name        string
		rule        ReplacementRule
		wantApplied bool
		wantErr     error
	}{
		{
			name:        "literal_already_applied",
			rule:        ReplacementRule{FromText: "import React, { useState, useCallback } from 'react';", ToText: "import React, { useState } from 'react';", AllowApplied: true},
			wantApplied: true,
		},
		{
			name:    "literal_strict_without_flag",
			rule:    ReplacementRule{FromText: "import React, { useState, useCallback } from 'react';", ToText: "import React, { useState } from 'react';"},
			wantErr: ErrNoMatch,
		},
		{
			name:    "literal_replacement_missing",
			rule:    ReplacementRule{FromText: "import Missing;", ToText: "import Gone;", AllowApplied: true},
			wantErr: ErrNoMatch,
		},
		{
			name:    "empty_replacement_cannot_be_detected",
			rule:    ReplacementRule{FromText: "console.log(x);", AllowApplied: true},
			wantErr: ErrNoMatch,
		},
		{
			name:        "span_already_applied",
			rule:        ReplacementRule{Kind: KindSpan, Anchor: "messages.map((", ToText: "<Item item={item} />", AllowApplied: true},
			wantApplied: true,
		},
		{
			name:    "span_strict_without_flag",
			rule:    ReplacementRule{Kind: KindSpan, Anchor: "messages.map((", ToText: "<Item item={item} />"},
			wantErr: ErrAnchorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewSimpleTextReplacer().ReplaceText(context.Background(), "", strings.NewReader(patched), []ReplacementRule{tt.rule})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, result.Outcomes, 1)
			assert.Equal(t, tt.wantApplied, result.Outcomes[0].Applied)
			assert.True(t, result.Outcomes[0].Skipped)
			assert.False(t, result.WasModified)
			assert.Equal(t, patched, string(result.ModifiedContent))
		})
	}
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "messages.map(", want: "messages.map("},
		{name: "first_line_only", in: "import React;\nimport Other;", want: "import React;..."},
		{name: "long_ascii", in: strings.Repeat("a", 60), want: strings.Repeat("a", 48) + "..."},
		{name: "rune_on_boundary", in: strings.Repeat("a", 47) + "é" + "tail", want: strings.Repeat("a", 47) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := abbreviate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "abbreviated text should stay valid UTF-8")
		})
	}
}

func TestSimpleTextReplacer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	replacer := NewSimpleTextReplacer()
	_, err := replacer.ReplaceText(ctx, "", strings.NewReader("Hello"), []ReplacementRule{
		{FromText: "Hello", ToText: "Hi"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimpleTextReplacer_ValidateRules(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ReplacementRule
		wantError string
	}{
		{
			name: "valid_rules",
			rules: []ReplacementRule{
				{FromText: "foo", ToText: "bar", FileFilterGlob: "**/*.txt"},
				{Kind: KindSpan, Anchor: "foo(", ToText: "bar"},
			},
		},
		{
			name: "missing_from_text",
			rules: []ReplacementRule{
				{ToText: "bar"},
			},
			wantError: "rule 0: from_text is required",
		},
		{
			name: "missing_anchor",
			rules: []ReplacementRule{
				{FromText: "ok"},
				{Kind: KindSpan, ToText: "bar"},
			},
			wantError: "rule 1: anchor is required",
		},
		{
			name: "anchor_without_open_delimiter",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "foo", ToText: "bar"},
			},
			wantError: "depth must be positive",
		},
		{
			name: "explicit_depth_allows_plain_anchor",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "foo", Depth: 1},
			},
		},
		{
			name: "same_delimiters",
			rules: []ReplacementRule{
				{Kind: KindSpan, Anchor: "|", Depth: 1, Delimiters: span.Delimiters{Open: '|', Close: '|'}},
			},
			wantError: "must differ",
		},
		{
			name: "unknown_kind",
			rules: []ReplacementRule{
				{Kind: "regex", FromText: "x"},
			},
			wantError: "unknown rule kind",
		},
		{
			name: "bad_glob",
			rules: []ReplacementRule{
				{FromText: "x", FileFilterGlob: "[a-"},
			},
			wantError: "invalid file filter glob",
		},
		{
			name:  "empty_rules",
			rules: []ReplacementRule{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replacer := NewSimpleTextReplacer()
			err := replacer.ValidateRules(tt.rules)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestReplacementRule_EffectiveDepth(t *testing.T) {
	rule := ReplacementRule{Kind: KindSpan, Anchor: "messages.map((message, index) => ("}
	assert.Equal(t, 2, rule.EffectiveDepth())

	rule.Depth = 5
	assert.Equal(t, 5, rule.EffectiveDepth())

	rule = ReplacementRule{Kind: KindSpan, Anchor: "obj = {", Delimiters: span.Braces}
	assert.Equal(t, 1, rule.EffectiveDepth())
}
