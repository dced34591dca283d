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

package operation

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// 🔍 RenderDiff returns a line diff of before and after. Each run of changed
// lines is introduced by a hunk header carrying its starting line numbers.
func RenderDiff(before, after string) string {
	if before == after {
		return ""
	}

	a, b := splitLines(before), splitLines(after)

	var sb strings.Builder
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}

		sb.WriteString(color.CyanString("@@ -%d +%d @@", op.I1+1, op.J1+1))
		sb.WriteByte('\n')

		if op.Tag == 'r' || op.Tag == 'd' {
			for _, line := range a[op.I1:op.I2] {
				sb.WriteString(color.RedString("- %s", line))
				sb.WriteByte('\n')
			}
		}
		if op.Tag == 'r' || op.Tag == 'i' {
			for _, line := range b[op.J1:op.J2] {
				sb.WriteString(color.GreenString("+ %s", line))
				sb.WriteByte('\n')
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// splitLines splits s into lines without their terminators
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
