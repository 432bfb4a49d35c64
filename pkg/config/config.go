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

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// DefaultValidateTimeout bounds one validator call when the config sets none
const DefaultValidateTimeout = 5 * time.Second

// 📚 Config represents the complete configuration
type Config struct {
	Root            string     `hcl:"root,optional" json:"root,omitempty" yaml:"root,omitempty"`
	Strict          bool       `hcl:"strict,optional" json:"strict,omitempty" yaml:"strict,omitempty"`
	AtomicWrites    bool       `hcl:"atomic_writes,optional" json:"atomic_writes,omitempty" yaml:"atomic_writes,omitempty"`
	SkipValidation  bool       `hcl:"skip_validation,optional" json:"skip_validation,omitempty" yaml:"skip_validation,omitempty"`
	ValidateTimeout string     `hcl:"validate_timeout,optional" json:"validate_timeout,omitempty" yaml:"validate_timeout,omitempty"`
	PatchSets       []PatchSet `hcl:"patchset,block" json:"patchsets" yaml:"patchsets" validate:"required,min=1,dive"`

	location string
}

// 🩹 PatchSet is one named, ordered group of rules and the files it targets
type PatchSet struct {
	Name  string   `hcl:"name,label" json:"name" yaml:"name" validate:"required"`
	File  string   `hcl:"file,optional" json:"file,omitempty" yaml:"file,omitempty"`
	Files []string `hcl:"files,optional" json:"files,omitempty" yaml:"files,omitempty" validate:"dive,required"`
	Rules []Rule   `hcl:"rule,block" json:"rules" yaml:"rules" validate:"required,min=1,dive"`
}

// 🔄 Rule is one find-and-replace step
type Rule struct {
	ID          string `hcl:"id,label" json:"id" yaml:"id" validate:"required"`
	Description string `hcl:"description,optional" json:"description,omitempty" yaml:"description,omitempty"`
	Match       string `hcl:"match,optional" json:"match,omitempty" yaml:"match,omitempty"`
	Regex       string `hcl:"regex,optional" json:"regex,omitempty" yaml:"regex,omitempty"`
	Replace     string `hcl:"replace,optional" json:"replace" yaml:"replace"`
	Multi       bool   `hcl:"multi,optional" json:"multi,omitempty" yaml:"multi,omitempty"`
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Location returns the path the config was loaded from
func (c *Config) Location() string {
	return c.location
}

// ResolveRoot returns the target root. A relative Root is taken relative to
// the config file; an empty one means the config file's directory.
func (c *Config) ResolveRoot() string {
	base := "."
	if c.location != "" {
		base = filepath.Dir(c.location)
	}
	switch {
	case c.Root == "":
		return base
	case filepath.IsAbs(c.Root):
		return c.Root
	default:
		return filepath.Join(base, c.Root)
	}
}

// Timeout returns the per-file validation deadline
func (c *Config) Timeout() (time.Duration, error) {
	if c.ValidateTimeout == "" {
		return DefaultValidateTimeout, nil
	}
	d, err := time.ParseDuration(c.ValidateTimeout)
	if err != nil {
		return 0, errors.Errorf("parsing validate_timeout: %w", err)
	}
	if d <= 0 {
		return 0, errors.Errorf("validate_timeout must be positive, got %s", d)
	}
	return d, nil
}

// ✅ Validate checks the configuration shape and compiles every rule once
func Validate(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	if err := structValidator.StructCtx(ctx, cfg); err != nil {
		return errors.Errorf("invalid config: %w", err)
	}

	if _, err := cfg.Timeout(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(cfg.PatchSets))
	for i := range cfg.PatchSets {
		ps := &cfg.PatchSets[i]
		if seen[ps.Name] {
			return errors.Errorf("duplicate patch set %q", ps.Name)
		}
		seen[ps.Name] = true

		if ps.File == "" && len(ps.Files) == 0 {
			return errors.Errorf("patch set %s: file or files is required", ps.Name)
		}
		for _, r := range ps.Rules {
			if (r.Match == "") == (r.Regex == "") {
				return errors.Errorf("patch set %s: rule %s: exactly one of match or regex is required", ps.Name, r.ID)
			}
		}
	}

	if _, err := cfg.Build(); err != nil {
		return err
	}

	logger.Debug().Int("patch_sets", len(cfg.PatchSets)).Msg("config validated")
	return nil
}

// 🏗️ Build compiles the configured patch sets in declared order
func (c *Config) Build() ([]*patch.Set, error) {
	sets := make([]*patch.Set, 0, len(c.PatchSets))
	for _, ps := range c.PatchSets {
		set, err := ps.Build()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Build compiles one patch set
func (ps *PatchSet) Build() (*patch.Set, error) {
	set := &patch.Set{
		Name:  ps.Name,
		Path:  ps.File,
		Rules: make([]patch.Rule, 0, len(ps.Rules)),
	}

	for _, r := range ps.Rules {
		rule := patch.Rule{
			ID:          r.ID,
			Description: r.Description,
			Replace:     patch.Template(r.Replace),
			Multi:       r.Multi,
		}
		if r.Regex != "" {
			m, err := patch.Regexp(r.Regex)
			if err != nil {
				return nil, errors.Errorf("patch set %s: rule %s: %w", ps.Name, r.ID, err)
			}
			rule.Match = m
		} else {
			rule.Match = patch.Literal(r.Match)
		}
		set.Rules = append(set.Rules, rule)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
