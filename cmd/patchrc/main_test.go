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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/span"
	"github.com/walteh/patchrc/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

const testPage = `import React, { useState, useCallback } from 'react';

export default function Page() {
  return (
    <div>
      {messages.map((message, index) => (
        <div key={index}>{render(message)}</div>
      ))}
    </div>
  );
}
`

const testPagePatched = `import React, { useState } from 'react';

export default function Page() {
  return (
    <div>
      {messages.map((message, index) => (<MessageItem message={message} />))}
    </div>
  );
}
`

const testConfig = `root: ${PATCHRC_TEST_ROOT}
patches:
  - name: page
    files: [app/page.js]
    rules:
      - old: "import React, { useState, useCallback } from 'react';"
        new: "import React, { useState } from 'react';"
      - kind: span
        anchor: "messages.map((message, index) => ("
        new: "messages.map((message, index) => (<MessageItem message={message} />))"
`

// 🧪 setupProject writes the test config, env file and page into a temp dir
func setupProject(t *testing.T) (dir string, configPath string) {
	t.Helper()

	testutils.PlainOutput(t)
	dir = testutils.WriteTree(t, map[string]string{
		"src/app/page.js": testPage,
		".patchrc.yaml":   testConfig,
		".env":            "PATCHRC_TEST_ROOT=src\n",
	})
	t.Cleanup(func() { os.Unsetenv("PATCHRC_TEST_ROOT") })

	return dir, filepath.Join(dir, ".patchrc.yaml")
}

// 🏃 run executes the root command with args and returns its output
func run(t *testing.T, dir, configPath string, args ...string) (string, error) {
	t.Helper()

	o := &opts.RootOpts{LogOutput: zerolog.NewTestWriter(t)}
	cmd := newRootCmd(o)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath, "--env-file", filepath.Join(dir, ".env")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readPage(t *testing.T, dir string) string {
	t.Helper()
	return testutils.ReadFile(t, dir, "src/app/page.js")
}

func TestApplyCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     error
		errContains string
		wantPage    string
		wantOutput  []string
	}{
		{
			name:     "apply",
			args:     []string{"apply"},
			wantPage: testPagePatched,
			wantOutput: []string{
				"patchrc • applying patches",
				"◆ page • apply",
				"app/page.js",
				"1 patched",
			},
		},
		{
			name:     "dry_run_with_diff",
			args:     []string{"apply", "--dry-run", "--diff"},
			wantPage: testPage,
			wantOutput: []string{
				"patchrc • dry run",
				"◆ page • dry-run",
				"- import React, { useState, useCallback } from 'react';",
				"+ import React, { useState } from 'react';",
				"1 pending",
			},
		},
		{
			name:     "selected_patch_with_jobs",
			args:     []string{"apply", "--patch", "page", "--jobs", "4"},
			wantPage: testPagePatched,
			wantOutput: []string{
				"◆ page • apply",
				"1 patched",
			},
		},
		{
			name:        "unknown_patch",
			args:        []string{"apply", "--patch", "missing"},
			errContains: `unknown patch "missing"`,
			wantPage:    testPage,
		},
		{
			name:     "check_pending",
			args:     []string{"check"},
			wantErr:  operation.ErrPatchPending,
			wantPage: testPage,
			wantOutput: []string{
				"patchrc • checking patches",
				"files need patching: 1 pending",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, configPath := setupProject(t)

			out, err := run(t, dir, configPath, tt.args...)
			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantPage, readPage(t, dir))
			for _, want := range tt.wantOutput {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestApplyTwiceFailsOnMissingText(t *testing.T) {
	dir, configPath := setupProject(t)

	_, err := run(t, dir, configPath, "apply")
	require.NoError(t, err)

	out, err := run(t, dir, configPath, "apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "literal text not found")
	assert.Contains(t, out, "failed")
	assert.Equal(t, testPagePatched, readPage(t, dir), "a failed run should not touch the file")
}

func TestCheckAfterApply(t *testing.T) {
	dir, configPath := setupProject(t)

	_, err := run(t, dir, configPath, "apply")
	require.NoError(t, err)

	out, err := run(t, dir, configPath, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "all files are up to date")
	assert.Equal(t, testPagePatched, readPage(t, dir))
}

func TestApplyBackupAndRestore(t *testing.T) {
	dir, configPath := setupProject(t)

	_, err := run(t, dir, configPath, "apply", "--backup")
	require.NoError(t, err)
	assert.Equal(t, testPagePatched, readPage(t, dir))
	assert.FileExists(t, filepath.Join(dir, "src/app/page.js.bak"))

	out, err := run(t, dir, configPath, "restore")
	require.NoError(t, err)
	assert.Equal(t, testPage, readPage(t, dir))
	assert.Contains(t, out, "from backup")
	assert.Contains(t, out, "1 restored")
}

func TestMissingConfig(t *testing.T) {
	dir, _ := setupProject(t)

	_, err := run(t, dir, filepath.Join(dir, "missing.yaml"), "apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLocateCommand(t *testing.T) {
	dir, configPath := setupProject(t)
	page := filepath.Join(dir, "src/app/page.js")

	anchor := "messages.map((message, index) => ("
	wantEnd := strings.Index(testPage, anchor) + len(anchor)
	end, err := span.Parens.Locate(testPage, wantEnd, 2)
	require.NoError(t, err)

	out, err := run(t, dir, configPath, "locate", "--file", page, "--anchor", anchor)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(end), strings.TrimSpace(out))

	out, err = run(t, dir, configPath, "locate", "--file", page, "--anchor", anchor, "--show")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</div>\n      ))"), "got %q", out)

	_, err = run(t, dir, configPath, "locate", "--file", page, "--offset", "0", "--delimiters", "{}", "--depth", "3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, span.ErrSpanNotBalanced), "got %v", err)

	_, err = run(t, dir, configPath, "locate", "--file", page)
	require.Error(t, err, "either --anchor or --offset is required")
}

func TestVersionCommand(t *testing.T) {
	dir, configPath := setupProject(t)

	out, err := run(t, dir, configPath, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "🚀 patchrc version info:")
	assert.Contains(t, out, "Go:")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion(&VersionInfo{
		Version:   "v1.2.3",
		GoVersion: "go1.23.5",
		Platform:  "linux/amd64",
		Revision:  "abc123",
		Time:      "2025-01-01T00:00:00Z",
		Modified:  true,
	})

	assert.Contains(t, out, "Version:   v1.2.3")
	assert.Contains(t, out, "Revision:  abc123 (modified)")
	assert.Contains(t, out, "Platform:  linux/amd64")
}
