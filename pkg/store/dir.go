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

package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📁 Dir is a Store rooted at a directory on disk
type Dir struct {
	baseDir string
	atomic  bool
}

// DirOption configures a Dir
type DirOption func(*Dir)

// WithAtomicWrites makes WriteFile go through a temp file and rename.
// The default is a plain overwrite of the target.
func WithAtomicWrites() DirOption {
	return func(d *Dir) {
		d.atomic = true
	}
}

// 🏭 NewDir creates a store rooted at baseDir
func NewDir(baseDir string, opts ...DirOption) *Dir {
	d := &Dir{baseDir: filepath.Clean(baseDir)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the base directory
func (d *Dir) Root() string {
	return d.baseDir
}

// FS returns the base directory as an fs.FS for globbing
func (d *Dir) FS() fs.FS {
	return os.DirFS(d.baseDir)
}

// 🔒 getAbsPath resolves a root-relative path, refusing anything outside the root
func (d *Dir) getAbsPath(path string) (string, error) {
	if !filepath.IsLocal(path) {
		return "", errors.Errorf("%w: %q", ErrOutsideRoot, path)
	}
	return filepath.Join(d.baseDir, path), nil
}

// checkRoot reports ErrUnavailable when the base directory is gone
func (d *Dir) checkRoot() error {
	info, err := os.Stat(d.baseDir)
	if err != nil {
		return errors.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	if !info.IsDir() {
		return errors.Errorf("%w: %s is not a directory", ErrUnavailable, d.baseDir)
	}
	return nil
}

func (d *Dir) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := d.checkRoot(); err != nil {
		return nil, err
	}

	absPath, err := d.getAbsPath(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, errors.Errorf("reading file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("size", len(content)).Msg("read file")
	return content, nil
}

func (d *Dir) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := d.checkRoot(); err != nil {
		return err
	}

	absPath, err := d.getAbsPath(path)
	if err != nil {
		return err
	}

	// keep the permissions of the file being overwritten
	mode := os.FileMode(0644)
	if info, err := os.Stat(absPath); err == nil {
		mode = info.Mode().Perm()
	}

	if d.atomic {
		return d.writeFileAtomic(absPath, content, mode)
	}

	if err := os.WriteFile(absPath, content, mode); err != nil {
		return errors.Errorf("writing file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("size", len(content)).Msg("wrote file")
	return nil
}

func (d *Dir) writeFileAtomic(absPath string, content []byte, mode os.FileMode) error {
	tempPath := absPath + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func (d *Dir) FileExists(ctx context.Context, path string) (bool, error) {
	if err := d.checkRoot(); err != nil {
		return false, err
	}

	absPath, err := d.getAbsPath(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(absPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}
