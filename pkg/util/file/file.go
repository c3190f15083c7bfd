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
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	xglob "github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// GlobWithRecursive expands pattern, ** matches any number of directories.
// Only regular files are returned.
func GlobWithRecursive(pattern string) (matches []string, err error) {
	dir, pattern := xglob.SplitPattern(pattern)
	basePath := os.DirFS(dir)
	matches = make([]string, 0)
	err = xglob.GlobWalk(basePath, pattern, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.Join(dir, path))
		return nil
	})
	return matches, err
}

func MatchWithRecursive(pattern, name string) (matched bool, err error) {
	return xglob.Match(pattern, name)
}

// Collect returns the sorted absolute paths matched by any of includes and
// none of excludes.
func Collect(includes []string, excludes []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, include := range includes {
		abs, err := filepath.Abs(include)
		if err != nil {
			return nil, errors.WithMessagef(err, "get abs path of %s", include)
		}
		matches, err := GlobWithRecursive(abs)
		if err != nil {
			return nil, errors.WithMessagef(err, "glob %s", include)
		}
		for _, m := range matches {
			excluded, err := isExcluded(m, excludes)
			if err != nil {
				return nil, err
			}
			if !excluded {
				seen[m] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func isExcluded(path string, excludes []string) (bool, error) {
	for _, exclude := range excludes {
		matched, err := MatchWithRecursive(exclude, path)
		if err != nil {
			return false, errors.WithMessagef(err, "bad exclude pattern %s", exclude)
		}
		if matched {
			return true, nil
		}
		// a bare name excludes that file in every directory
		if matched, _ = MatchWithRecursive(exclude, filepath.Base(path)); matched {
			return true, nil
		}
	}
	return false, nil
}

func CreateDirIfNotExist(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return errors.WithMessagef(err, "Error creating directory: %s", dir)
		}
	}
	return nil
}
