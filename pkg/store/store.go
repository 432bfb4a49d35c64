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

// Package store is the file-system boundary of the patcher.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when the target path does not exist
	ErrNotFound = errors.Base("file not found")

	// ErrUnavailable is returned when the store itself cannot be used
	ErrUnavailable = errors.Base("file store unavailable")

	// ErrOutsideRoot is returned for absolute paths or paths that climb out of the root
	ErrOutsideRoot = errors.Base("path escapes store root")
)

// 💾 Store reads and writes whole text files by relative path
type Store interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)
}

// 🔍 Checksum returns the hex SHA-256 of content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
