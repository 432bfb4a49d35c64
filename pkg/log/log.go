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
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	ruleIndent  = 8  // spaces to indent rule entries
	nameWidth   = 35 // Base width for filename
	setWidth    = 20 // Width for patch set name
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation represents one patched file for logging
type FileOperation struct {
	Path        string // File path
	Set         string // Patch set name
	Status      string // Operation status
	IsUpdated   bool   // Content was written
	IsPending   bool   // Content would change (dry run)
	IsMissing   bool   // File does not exist
	IsFailed    bool   // Read, rule, or write failure
	HasWarning  bool   // Validator warned
	IsUnstable  bool   // Patch set is not idempotent on this file
	Detail      string // Error or validator message
	RulesTotal  int    // Rules in the set
	RulesActive int    // Rules that applied
}

// 🩹 RuleOperation represents one rule outcome under a file
type RuleOperation struct {
	ID      string
	Outcome string
	Detail  string
}

// 📦 BatchOperation represents a whole run for logging
type BatchOperation struct {
	RunID  string // Unique id of this run
	Files  int    // Number of (path, patch set) pairs
	Mode   string // Validation mode
	DryRun bool   // No writes
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *BatchOperation
	files   []FileOperation
}

// 🏭 New creates a new logger writing user output to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context.
// Without one, console output is discarded and events go to the context's zerolog logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return New(io.Discard, *zerolog.Ctx(ctx))
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsMissing:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsFailed:
		symbol = '!'
		symbolColor = color.FgRed
	case op.HasWarning:
		symbol = '⚠'
		symbolColor = color.FgYellow
	case op.IsUpdated:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsPending:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.FgMagenta).Sprint(fmt.Sprintf("%-*s", setWidth, op.Set)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 formatRuleOperation formats a rule outcome for display
func (l *Logger) formatRuleOperation(op RuleOperation) string {
	var outcomeColor color.Attribute
	switch op.Outcome {
	case "applied":
		outcomeColor = color.FgGreen
	case "failed":
		outcomeColor = color.FgRed
	default:
		outcomeColor = color.Faint
	}

	line := fmt.Sprintf("%*s%s %s",
		ruleIndent, "",
		color.New(outcomeColor).Sprint(fmt.Sprintf("%-*s", statusWidth+1, op.Outcome)),
		op.ID)
	if op.Detail != "" {
		line += " " + color.New(color.Faint).Sprint("("+op.Detail+")")
	}
	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.files = append(l.files, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatFileOperation(op))
	if op.Detail != "" {
		fmt.Fprintf(l.console, "%*s%s\n", ruleIndent, "", color.New(color.Faint).Sprint(op.Detail))
	}

	// Log to zerolog
	ev := l.zlog.Info()
	if op.IsFailed || op.IsMissing {
		ev = l.zlog.Error()
	} else if op.HasWarning || op.IsUnstable {
		ev = l.zlog.Warn()
	}
	ev.Str("file", op.Path).
		Str("patch_set", op.Set).
		Str("status", op.Status).
		Bool("is_updated", op.IsUpdated).
		Bool("is_pending", op.IsPending).
		Bool("is_missing", op.IsMissing).
		Bool("is_failed", op.IsFailed).
		Bool("has_warning", op.HasWarning).
		Bool("is_unstable", op.IsUnstable).
		Int("rules_applied", op.RulesActive).
		Int("rules_total", op.RulesTotal).
		Str("detail", op.Detail).
		Msg("file operation")
}

// 📝 LogRuleOperation logs one rule outcome beneath the current file
func (l *Logger) LogRuleOperation(ctx context.Context, op RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatRuleOperation(op))

	l.zlog.Debug().
		Str("rule", op.ID).
		Str("outcome", op.Outcome).
		Str("detail", op.Detail).
		Msg("rule operation")
}

// 📝 LogDiff prints a unified diff beneath the current file
func (l *Logger) LogDiff(ctx context.Context, diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range splitLines(diff) {
		c := color.New(color.Faint)
		switch {
		case len(line) > 0 && line[0] == '+':
			c = color.New(color.FgGreen)
		case len(line) > 0 && line[0] == '-':
			c = color.New(color.FgRed)
		case len(line) > 1 && line[:2] == "@@":
			c = color.New(color.FgCyan)
		}
		fmt.Fprintf(l.console, "%*s%s\n", ruleIndent, "", c.Sprint(line))
	}
}

// 📝 StartBatch starts a new patch run
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &op
	l.files = nil

	mode := op.Mode
	if op.DryRun {
		mode += ", dry run"
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d file(s)", op.Files),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	// Log to zerolog
	l.zlog.Info().
		Str("run_id", op.RunID).
		Int("files", op.Files).
		Str("mode", op.Mode).
		Bool("dry_run", op.DryRun).
		Msg("starting patch run")
}

// 📝 EndBatch ends the current patch run
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		return
	}

	// Log summary
	l.zlog.Info().
		Str("run_id", l.batch.RunID).
		Int("files", len(l.files)).
		Msg("patch run complete")

	l.batch = nil
	l.files = nil
}

// 📊 Table renders rows (the first row is the header) as a table
func (l *Logger) Table(rows [][]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(l.console).
		WithData(pterm.TableData(rows)).
		Render()
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

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
