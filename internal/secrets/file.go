// Copyright 2025 Tom Barlow
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

package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the default maximum secret file size (64KB).
const MaxFileSize = 64 * 1024

// FileProvider resolves file:/abs/path references.
type FileProvider struct {
	maxSize int64
}

// NewFileProvider creates a file provider. A zero maxSize selects MaxFileSize.
func NewFileProvider(maxSize int64) *FileProvider {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &FileProvider{maxSize: maxSize}
}

// Scheme returns "file".
func (f *FileProvider) Scheme() string {
	return "file"
}

// Resolve reads the file at reference. The path must be absolute and
// free of traversal segments.
func (f *FileProvider) Resolve(_ context.Context, reference string) (string, error) {
	if !filepath.IsAbs(reference) {
		return "", fmt.Errorf("%w: path must be absolute", ErrInvalidReference)
	}
	if filepath.Clean(reference) != reference || strings.Contains(reference, "..") {
		return "", fmt.Errorf("%w: path must be clean", ErrInvalidReference)
	}

	info, err := os.Stat(reference)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, reference)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidReference, reference)
	}
	if info.Size() > f.maxSize {
		return "", fmt.Errorf("secret file %s exceeds %d bytes", reference, f.maxSize)
	}

	data, err := os.ReadFile(reference)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}
