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

package wholefile

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

// LocalRef refers to a file on the local disk.
type LocalRef struct {
	path string
	size int64
}

var _ api.FileRef = (*LocalRef)(nil)

func NewLocalRef(path string) (*LocalRef, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeSourceOpen, "cannot open %s", abs)
	}
	if info.IsDir() {
		return nil, api.NewError(api.ErrCodeSourceOpen, "%s is a directory", abs)
	}
	return &LocalRef{
		path: abs,
		size: info.Size(),
	}, nil
}

func (l *LocalRef) Name() string {
	return l.path
}

func (l *LocalRef) Size() int64 {
	return l.size
}

func (l *LocalRef) Open() (io.ReadCloser, error) {
	return os.Open(l.path)
}

// StreamRef turns an already open stream into a reference. It can be opened
// only once, and closing what Open returns leaves the stream to its owner.
type StreamRef struct {
	name string
	size int64

	mu     sync.Mutex
	r      io.Reader
	opened bool
}

var _ api.FileRef = (*StreamRef)(nil)

// NewStreamRef wraps r, size is -1 when unknown.
func NewStreamRef(name string, r io.Reader, size int64) *StreamRef {
	return &StreamRef{
		name: name,
		size: size,
		r:    r,
	}
}

func (s *StreamRef) Name() string {
	return s.name
}

func (s *StreamRef) Size() int64 {
	return s.size
}

func (s *StreamRef) Open() (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil, errors.Errorf("stream %s was already opened", s.name)
	}
	s.opened = true
	return io.NopCloser(s.r), nil
}
