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

package patch

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Replacer computes the corrected text for one match
type Replacer interface {
	Replace(m Match) (string, error)
}

// Template is a replacement template. For regexp matches it expands $1 and
// ${name}; for literal matches it is used verbatim.
type Template string

// Replace implements Replacer
func (t Template) Replace(m Match) (string, error) {
	return m.Expand(string(t)), nil
}

// ReplaceFunc computes a replacement in code
type ReplaceFunc func(m Match) (string, error)

// Replace implements Replacer
func (f ReplaceFunc) Replace(m Match) (string, error) {
	return f(m)
}

// 🩹 Rule is one named, idempotent text transformation
type Rule struct {
	// ID is unique within a Set
	ID string

	// Description says which defect the rule repairs
	Description string

	// Match locates the defect
	Match Matcher

	// Replace produces the corrected text
	Replace Replacer

	// Multi replaces every occurrence instead of only the first
	Multi bool
}

// Apply runs the rule over content. applied is true only when the content changed.
func (r *Rule) Apply(content string) (string, bool, error) {
	n := 1
	if r.Multi {
		n = -1
	}

	matches := r.Match.FindAll(content, n)
	if len(matches) == 0 {
		return content, false, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, m := range matches {
		repl, err := r.Replace.Replace(m)
		if err != nil {
			return content, false, errors.Errorf("rule %s: replacing match at offset %d: %w", r.ID, m.Start, err)
		}
		b.WriteString(content[last:m.Start])
		b.WriteString(repl)
		last = m.End
	}
	b.WriteString(content[last:])

	out := b.String()
	return out, out != content, nil
}

// Validate checks that the rule is complete and not trivially self-matching
func (r *Rule) Validate() error {
	if r.ID == "" {
		return errors.Errorf("id is required")
	}
	if r.Match == nil {
		return errors.Errorf("rule %s: matcher is required", r.ID)
	}
	if r.Replace == nil {
		return errors.Errorf("rule %s: replacer is required", r.ID)
	}
	if strings.TrimSpace(r.Match.String()) == "" {
		return errors.Errorf("rule %s: pattern is empty", r.ID)
	}

	// a replacement that contains the pattern matches again on the next run
	// only regexp matches expand $ references, so only those templates are opaque here
	if tmpl, ok := r.Replace.(Template); ok && !expands(r.Match, tmpl) {
		if len(r.Match.FindAll(string(tmpl), 1)) > 0 {
			return errors.Errorf("rule %s: replacement %q matches its own pattern", r.ID, string(tmpl))
		}
	}

	return nil
}

func expands(m Matcher, tmpl Template) bool {
	_, isRegexp := m.(*regexpMatcher)
	return isRegexp && strings.Contains(string(tmpl), "$")
}
