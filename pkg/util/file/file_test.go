/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	globPattern                = `/var/log/*/access.log`
	globPatternWithStars       = `/var/log/**/access.log`
	globPatternWithStarsOption = `/var/log/**/access{,.[0-9]}.log`
)

func TestMatchWithRecursive(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		file        string
		wantMatched bool
	}{
		{"single star", globPattern, "/var/log/nginx/access.log", true},
		{"single star is one level", globPattern, "/var/log/a/b/access.log", false},
		{"double star", globPatternWithStars, "/var/log/a/b/access.log", true},
		{"option plain", globPatternWithStarsOption, "/var/log/a/access.log", true},
		{"option rotated", globPatternWithStarsOption, "/var/log/a/access.3.log", true},
		{"option miss", globPatternWithStarsOption, "/var/log/a/access.10.log", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := MatchWithRecursive(tt.pattern, tt.file)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	}
}

func TestGlobWithRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.csv", "x/b.csv", "x/y/c.csv", "x/y/c.txt")

	matches, err := GlobWithRecursive(filepath.Join(dir, "**", "*.csv"))
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "x/b.csv"),
		filepath.Join(dir, "x/y/c.csv"),
	}, matches)
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.log", "b.log", "skip.log", "sub/c.log", "sub/d.gz")

	paths, err := Collect([]string{
		filepath.Join(dir, "*.log"),
		filepath.Join(dir, "**", "*.log"),
	}, []string{"skip.log", filepath.Join(dir, "sub", "*.gz")})
	assert.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "b.log"),
		filepath.Join(dir, "sub/c.log"),
	}, paths)
}

func TestCreateDirIfNotExist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	assert.NoError(t, CreateDirIfNotExist(dir))
	assert.NoError(t, CreateDirIfNotExist(dir))
	stat, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, stat.IsDir())
}
