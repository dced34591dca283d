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

package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/patchrc/pkg/text"
)

func ExampleSimpleTextReplacer_ReplaceText() {
	replacer := text.NewSimpleTextReplacer()

	rules := []text.ReplacementRule{
		{
			FromText: "Hello",
			ToText:   "Hi",
		},
		{
			Kind:   text.KindSpan,
			Anchor: "render(",
			ToText: "render(item)",
		},
	}

	content := strings.NewReader("Hello render(a, wrap(b)); done")

	result, err := replacer.ReplaceText(context.Background(), "main.js", content, rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello render(a, wrap(b)); done
	// Modified: Hi render(item); done
	// Changes: 2
	// Was Modified: true
}

func ExampleSimpleTextReplacer_ValidateRules() {
	replacer := text.NewSimpleTextReplacer()

	rules := []text.ReplacementRule{
		{
			FromText: "foo",
			ToText:   "bar",
		},
		{
			Kind:   text.KindSpan,
			Anchor: "baz", // opens nothing and sets no depth
			ToText: "qux",
		},
	}

	err := replacer.ValidateRules(rules)
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1: depth must be positive, anchor "baz" opens 0
}
