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

package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// maxReported caps how many syntax errors end up in a warning message
const maxReported = 3

// maxDepth guards the error walk against pathologically nested trees
const maxDepth = 1000

// 🌳 Syntax checks storefront sources with tree-sitter grammars chosen by
// file extension. JSON files are checked with a JSON decoder.
type Syntax struct{}

// NewSyntax creates a Syntax validator
func NewSyntax() *Syntax {
	return &Syntax{}
}

// syntaxError is one ERROR or MISSING node
type syntaxError struct {
	line    int
	column  int
	message string
}

// Validate implements Validator
func (s *Syntax) Validate(ctx context.Context, path string, content []byte) Outcome {
	lang := DetectLanguage(path)
	if lang == "json" {
		return validateJSON(content)
	}

	tsLang := treeSitterLanguage(lang)
	if tsLang == nil {
		return NotRun(fmt.Sprintf("no parser for %q", filepath.Ext(path)))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tsLang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return Warningf("parsing %s: %v", lang, err)
	}
	defer tree.Close()

	errs := collectSyntaxErrors(tree.RootNode(), content)
	if len(errs) == 0 {
		return OK()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s syntax error(s)", len(errs), lang)
	for i, e := range errs {
		if i >= maxReported {
			fmt.Fprintf(&sb, "; and %d more", len(errs)-maxReported)
			break
		}
		fmt.Fprintf(&sb, "; line %d, col %d: %s", e.line, e.column, e.message)
	}
	return Warningf("%s", sb.String())
}

// DetectLanguage maps a file extension to a language name, or "" when unknown
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".jsx":
		return "javascript"
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".css":
		return "css"
	case ".html", ".htm":
		return "html"
	case ".json", ".webmanifest":
		return "json"
	default:
		return ""
	}
}

func treeSitterLanguage(lang string) *sitter.Language {
	switch lang {
	case "javascript":
		return javascript.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	case "tsx":
		return tsx.GetLanguage()
	case "css":
		return css.GetLanguage()
	case "html":
		return html.GetLanguage()
	default:
		return nil
	}
}

func validateJSON(content []byte) Outcome {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return Warningf("invalid json: %v", err)
	}
	return OK()
}

func collectSyntaxErrors(root *sitter.Node, content []byte) []syntaxError {
	errs := make([]syntaxError, 0)
	collectSyntaxErrorsRecursive(root, content, &errs, 0)
	return errs
}

func collectSyntaxErrorsRecursive(node *sitter.Node, content []byte, errs *[]syntaxError, depth int) {
	if node == nil || depth > maxDepth {
		return
	}

	if node.IsMissing() || node.IsError() {
		point := node.StartPoint()
		msg := "unexpected input"
		if node.IsMissing() {
			msg = fmt.Sprintf("missing %s", node.Type())
		} else if text := snippet(node, content); text != "" {
			msg = fmt.Sprintf("unexpected %q", text)
		}
		*errs = append(*errs, syntaxError{
			line:    int(point.Row) + 1,
			column:  int(point.Column),
			message: msg,
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxErrorsRecursive(node.Child(i), content, errs, depth+1)
	}
}

func snippet(node *sitter.Node, content []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint32(len(content)) {
		end = uint32(len(content))
	}
	if start >= end {
		return ""
	}
	text := strings.TrimSpace(string(content[start:end]))
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return text
}
