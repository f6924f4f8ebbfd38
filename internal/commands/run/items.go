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

package run

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tombee/connectsecure/internal/node"
)

// maxItemsFileSize bounds the items file (10MB).
const maxItemsFileSize = 10 * 1024 * 1024

// loadItems reads items from path, or from stdin when path is "-". The file
// holds either a list of items or a single item.
func loadItems(path string, stdin io.Reader) ([]node.Item, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxItemsFileSize+1))
	} else {
		data, err = readFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(data) > maxItemsFileSize {
		return nil, fmt.Errorf("items exceed %d bytes", maxItemsFileSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("no items in %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxItemsFileSize {
		return nil, fmt.Errorf("items file %s exceeds %d bytes", path, maxItemsFileSize)
	}
	return os.ReadFile(path)
}

func decodeJSON(data []byte) ([]node.Item, error) {
	trimmed := bytes.TrimSpace(data)

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	if trimmed[0] == '{' {
		var item node.Item
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON item: %w", err)
		}
		return []node.Item{item}, nil
	}

	var items []node.Item
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON items: %w", err)
	}
	return items, nil
}

func decodeYAML(data []byte) ([]node.Item, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML items: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("no items found")
	}

	doc := root.Content[0]
	if doc.Kind == yaml.MappingNode {
		var item node.Item
		if err := doc.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode YAML item: %w", err)
		}
		return []node.Item{item}, nil
	}

	var items []node.Item
	if err := doc.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode YAML items: %w", err)
	}
	return items, nil
}
