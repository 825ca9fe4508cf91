// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/lumber/internal/hierarchy"
)

// TypeDeclaration describes a type to declare, with its optional parent.
type TypeDeclaration struct {
	Type   hierarchy.TypeID `json:"type" yaml:"type"`
	Parent hierarchy.TypeID `json:"parent,omitempty" yaml:"parent,omitempty"`
}

type declarationsFile struct {
	Types []TypeDeclaration `yaml:"types"`
}

// LoadDeclarations reads the type declarations in path, keeping the file order.
func LoadDeclarations(path string) ([]TypeDeclaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("declarations file %q: %w", path, err)
	}

	var file declarationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	for idx, declaration := range file.Types {
		if declaration.Type == "" {
			return nil, fmt.Errorf("%w %q: declaration %d has no type", ErrParsing, path, idx)
		}
	}

	return file.Types, nil
}
