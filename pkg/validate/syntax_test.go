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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntax_Validate(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		content     string
		wantStatus  Status
		wantMessage string
	}{
		{
			name:       "valid_javascript",
			path:       "js/cart.js",
			content:    "function renderCart() {\n  update();\n}\n",
			wantStatus: StatusOK,
		},
		{
			name:        "extra_closing_brace",
			path:        "js/cart.js",
			content:     "function renderCart() {\n  update();\n}\n}\n",
			wantStatus:  StatusWarning,
			wantMessage: "javascript syntax error",
		},
		{
			name:       "valid_css",
			path:       "css/site.css",
			content:    ".cart-badge {\n  color: red;\n}\n",
			wantStatus: StatusOK,
		},
		{
			name:        "css_stray_brace",
			path:        "css/site.css",
			content:     ".cart-badge {\n  color: red;\n}}\n",
			wantStatus:  StatusWarning,
			wantMessage: "css syntax error",
		},
		{
			name:       "valid_html",
			path:       "index.html",
			content:    "<!DOCTYPE html>\n<html><head><title>Shop</title></head><body><p>hi</p></body></html>\n",
			wantStatus: StatusOK,
		},
		{
			name:       "valid_json",
			path:       "manifest.json",
			content:    `{"name": "Shop", "icons": []}`,
			wantStatus: StatusOK,
		},
		{
			name:        "invalid_json",
			path:        "manifest.json",
			content:     `{"name": "Shop",}`,
			wantStatus:  StatusWarning,
			wantMessage: "invalid json",
		},
		{
			name:        "unknown_extension",
			path:        "robots.txt",
			content:     "User-agent: *",
			wantStatus:  StatusNotRun,
			wantMessage: `no parser for ".txt"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewSyntax().Validate(context.Background(), tt.path, []byte(tt.content))

			assert.Equal(t, tt.wantStatus, out.Status, "message: %s", out.Message)
			if tt.wantMessage != "" {
				assert.Contains(t, out.Message, tt.wantMessage)
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"a.js":              "javascript",
		"a.MJS":             "javascript",
		"a.ts":              "typescript",
		"a.tsx":             "tsx",
		"a.css":             "css",
		"a.htm":             "html",
		"site.webmanifest":  "json",
		"Makefile":          "",
		"sitemap.xml":       "",
		"nested/dir/a.json": "json",
	}

	for path, want := range tests {
		assert.Equal(t, want, DetectLanguage(path), "path %s", path)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "not-run", StatusNotRun.String())
}
