package config

import (
	"context"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// 📎 Pairs builds the ordered (path, patch set) pairs for a run.
//
// Patch sets keep their declared order. Within a set, File comes first,
// then each glob's matches sorted lexically. A path is paired with a set at
// most once. Literal paths pass through unchecked so a missing file is
// reported as not found rather than silently dropped.
func (c *Config) Pairs(ctx context.Context, fsys fs.FS) ([]report.Pair, error) {
	logger := zerolog.Ctx(ctx)

	sets, err := c.Build()
	if err != nil {
		return nil, err
	}

	var pairs []report.Pair
	for i, set := range sets {
		ps := c.PatchSets[i]
		seen := map[string]bool{}
		add := func(p string) {
			if seen[p] {
				return
			}
			seen[p] = true
			pairs = append(pairs, report.Pair{Path: p, Set: set})
		}

		if ps.File != "" {
			add(ps.File)
		}

		for _, pattern := range ps.Files {
			if !isGlob(pattern) {
				add(pattern)
				continue
			}

			if !doublestar.ValidatePattern(pattern) {
				return nil, errors.Errorf("patch set %s: invalid glob %q", ps.Name, pattern)
			}

			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("patch set %s: expanding %q: %w", ps.Name, pattern, err)
			}
			if len(matches) == 0 {
				logger.Warn().Str("patch_set", ps.Name).Str("glob", pattern).Msg("glob matched no files")
				continue
			}

			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
		}
	}

	return pairs, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
