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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
)

// File statuses shown in the status column
const (
	StatusPatched   = "patched"
	StatusPending   = "pending"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
	StatusRestored  = "restored"
)

// 🎯 FileOperation represents the outcome of patching one file
type FileOperation struct {
	Path         string // Input path, relative to the patch root
	Output       string // Output path when different from Path
	Status       string // Operation status
	IsModified   bool   // Whether the content changed
	IsFailed     bool   // Whether a rule failed
	Replacements int    // Number of replacements made
	OldSize      int    // Size of the input in bytes
	NewSize      int    // Size of the output in bytes
}

// Saved returns how many bytes the patch removed (negative when it grew)
func (op FileOperation) Saved() int {
	return op.OldSize - op.NewSize
}

// 📦 PatchOperation represents a patch definition being applied
type PatchOperation struct {
	Name   string // Patch name
	Root   string // Root directory the file globs are relative to
	Files  int    // Number of matched files
	DryRun bool   // Whether results are written
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *PatchOperation
	operations []FileOperation
}

// 🏭 New creates a new logger that mirrors console output to the zerolog
// logger carried by ctx
func New(ctx context.Context, console io.Writer) *Logger {
	return &Logger{
		zlog:    *zerolog.Ctx(ctx),
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsModified && op.Status == StatusPending:
		symbol = '~'
		symbolColor = color.FgYellow
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	name := op.Path
	if op.Output != "" && op.Output != op.Path {
		name = op.Path + " → " + op.Output
	}

	var detail string
	switch {
	case op.IsFailed:
	case op.Status == StatusRestored:
		detail = "from backup"
	case op.IsModified:
		detail = fmt.Sprintf("%d replacements, %+d bytes", op.Replacements, op.NewSize-op.OldSize)
	default:
		detail = "no change"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(statusColor(op.Status)).Sprint(fmt.Sprintf("%-*s", statusWidth, op.Status)),
		color.New(color.Faint).Sprint(detail))
}

func statusColor(status string) color.Attribute {
	switch status {
	case StatusPatched:
		return color.FgGreen
	case StatusPending:
		return color.FgYellow
	case StatusFailed:
		return color.FgRed
	default:
		return color.FgCyan
	}
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("output", op.Output).
		Str("status", op.Status).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Int("replacements", op.Replacements).
		Int("old_size", op.OldSize).
		Int("new_size", op.NewSize).
		Msg("file operation")
}

// 📝 StartPatchOperation starts a new patch operation
func (l *Logger) StartPatchOperation(ctx context.Context, op PatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := "apply"
	if op.DryRun {
		mode = "dry-run"
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("patch", op.Name).
		Str("root", op.Root).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting patch operation")
}

// 📝 EndPatchOperation ends the current patch operation
func (l *Logger) EndPatchOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	modified := 0
	for _, op := range l.operations {
		if op.IsModified {
			modified++
		}
	}

	l.zlog.Info().
		Str("patch", l.currentOp.Name).
		Int("files", len(l.operations)).
		Int("modified", modified).
		Msg("patch operation complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogSizeSummary prints the before/after sizes of a patched file
func (l *Logger) LogSizeSummary(op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%*s Old size: %d chars\n", fileIndent+1, "", op.OldSize)
	fmt.Fprintf(l.console, "%*s New size: %d chars\n", fileIndent+1, "", op.NewSize)
	fmt.Fprintf(l.console, "%*s Saved: %d chars\n", fileIndent+1, "", op.Saved())
}

// 📝 LogDiff writes a rendered diff indented under the current file
func (l *Logger) LogDiff(diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if diff == "" {
		return
	}
	fmt.Fprintln(l.console, diff)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	patchrcText := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", patchrcText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
