// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDeclarations(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		path          string
		expected      []TypeDeclaration
		expectedError error
	}{
		"declarations keep the file order": {
			path: filepath.Join("testdata", "types.yaml"),
			expected: []TypeDeclaration{
				{Type: "app.models.Model"},
				{Type: "app.models.User", Parent: "app.models.Model"},
				{Type: "app.models.Admin", Parent: "app.models.User"},
			},
		},
		"missing file": {
			path:          filepath.Join("testdata", "missing.yaml"),
			expectedError: syscall.ENOENT,
		},
		"malformed file": {
			path:          filepath.Join("testdata", "malformed.yaml"),
			expectedError: ErrParsing,
		},
		"declaration without type": {
			path:          filepath.Join("testdata", "types-missing-type.yaml"),
			expectedError: ErrParsing,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			declarations, err := LoadDeclarations(test.path)
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, declarations)
		})
	}
}
