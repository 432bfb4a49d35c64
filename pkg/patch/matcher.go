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
	"regexp"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 📍 Match is one located occurrence of a pattern in the content
type Match struct {
	Start int    // Byte offset of the first matched byte
	End   int    // Byte offset just past the last matched byte
	Text  string // The matched text

	expand func(template string) string
}

// Expand resolves a replacement template against this match.
// Literal matches return the template unchanged.
func (m Match) Expand(template string) string {
	if m.expand == nil {
		return template
	}
	return m.expand(template)
}

// 🔍 Matcher locates occurrences of a pattern in a whole file's content
type Matcher interface {
	// FindAll returns at most n non-overlapping matches in order; n < 0 means all
	FindAll(content string, n int) []Match

	// String returns the pattern as written
	String() string
}

// literalMatcher matches a fixed pattern, tolerating whitespace drift
type literalMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// 🏭 Literal creates a whitespace-tolerant literal matcher.
// Every non-whitespace character must match exactly. A run of whitespace
// between two word characters matches one or more whitespace characters;
// next to punctuation it may also match none.
func Literal(pattern string) Matcher {
	return &literalMatcher{
		pattern: pattern,
		re:      compileLiteral(pattern),
	}
}

func compileLiteral(pattern string) *regexp.Regexp {
	if strings.TrimSpace(pattern) == "" {
		return nil
	}

	runes := []rune(pattern)
	var b strings.Builder
	var token strings.Builder
	flush := func() {
		if token.Len() > 0 {
			b.WriteString(regexp.QuoteMeta(token.String()))
			token.Reset()
		}
	}

	for i := 0; i < len(runes); {
		if !unicode.IsSpace(runes[i]) {
			token.WriteRune(runes[i])
			i++
			continue
		}

		start := i
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		flush()

		// whitespace between two words separates them and cannot vanish
		if start > 0 && i < len(runes) && isWordRune(runes[start-1]) && isWordRune(runes[i]) {
			b.WriteString(`\s+`)
		} else {
			b.WriteString(`\s*`)
		}
	}
	flush()

	// quoted input always compiles
	return regexp.MustCompile(b.String())
}

// isWordRune reports whether r belongs to an identifier, number or selector
func isWordRune(r rune) bool {
	switch r {
	case '_', '$', '-', '.':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (m *literalMatcher) FindAll(content string, n int) []Match {
	if m.re == nil {
		return nil
	}
	locs := m.re.FindAllStringIndex(content, n)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Text:  content[loc[0]:loc[1]],
		})
	}
	return matches
}

func (m *literalMatcher) String() string {
	return m.pattern
}

// regexpMatcher matches an RE2 expression with multi-line anchors
type regexpMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// 🏭 Regexp creates a matcher from an RE2 expression.
// The expression runs over the whole file with ^ and $ anchored per line.
func Regexp(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, errors.Errorf("regexp pattern is empty")
	}
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &regexpMatcher{pattern: pattern, re: re}, nil
}

// MustRegexp is like Regexp but panics on an invalid expression
func MustRegexp(pattern string) Matcher {
	m, err := Regexp(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *regexpMatcher) FindAll(content string, n int) []Match {
	locs := m.re.FindAllStringSubmatchIndex(content, n)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		loc := loc
		matches = append(matches, Match{
			Start: loc[0],
			End:   loc[1],
			Text:  content[loc[0]:loc[1]],
			expand: func(template string) string {
				return string(m.re.ExpandString(nil, template, content, loc))
			},
		})
	}
	return matches
}

func (m *regexpMatcher) String() string {
	return m.pattern
}
