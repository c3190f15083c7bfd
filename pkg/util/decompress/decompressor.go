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

package decompress

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

const (
	None = "none"
	Auto = "auto"
	GZ   = "gzip"
	BZ2  = "bzip2"
	XZ   = "xz"

	// Snappy is the snappy framing format, not raw blocks.
	Snappy = "snappy"
)

// DecompressorWorkShop wraps a compressed stream into a plain one.
type DecompressorWorkShop func(r io.Reader) (io.ReadCloser, error)

type DecompressorFactory struct {
	lock       sync.RWMutex
	workShops  map[string]DecompressorWorkShop
	extensions map[string]string
}

var (
	globalDecompressorFactory *DecompressorFactory
	once                      sync.Once
)

func GetOrCreateDecompressorFactory() *DecompressorFactory {
	once.Do(func() {
		globalDecompressorFactory = &DecompressorFactory{
			workShops:  make(map[string]DecompressorWorkShop),
			extensions: make(map[string]string),
		}
	})
	return globalDecompressorFactory
}

func init() {
	f := GetOrCreateDecompressorFactory()
	f.Register(GZ, makeGZDecompressor, ".gz", ".gzip")
	f.Register(BZ2, makeBZ2Decompressor, ".bz2")
	f.Register(XZ, makeXZDecompressor, ".xz")
	f.Register(Snappy, makeSnappyDecompressor, ".sz")
}

func makeGZDecompressor(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func makeBZ2Decompressor(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

func makeXZDecompressor(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(xr), nil
}

func makeSnappyDecompressor(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

// Register adds a compression by name together with the file extensions it
// is recognized by. The first registration of a name wins.
func (factory *DecompressorFactory) Register(name string, workShop DecompressorWorkShop, exts ...string) {
	factory.lock.Lock()
	defer factory.lock.Unlock()
	if _, ok := factory.workShops[name]; ok {
		return
	}
	factory.workShops[name] = workShop
	for _, ext := range exts {
		factory.extensions[ext] = name
	}
}

func (factory *DecompressorFactory) Get(name string) DecompressorWorkShop {
	factory.lock.RLock()
	defer factory.lock.RUnlock()
	return factory.workShops[name]
}

// ForPath returns the compression a file name suggests, None if there is none.
func (factory *DecompressorFactory) ForPath(path string) string {
	factory.lock.RLock()
	defer factory.lock.RUnlock()
	if name, ok := factory.extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return name
	}
	return None
}

// Supported tells whether name is a valid compression setting.
func (factory *DecompressorFactory) Supported(name string) bool {
	if name == "" || name == None || name == Auto {
		return true
	}
	return factory.Get(name) != nil
}

// Resolve turns a compression setting into the compression applied to the
// source id, Auto looks at the id extension.
func (factory *DecompressorFactory) Resolve(compression string, id string) string {
	switch compression {
	case "", None:
		return None
	case Auto:
		return factory.ForPath(id)
	}
	return compression
}

// MakeDecompressor wraps r according to compression. The returned closer
// only releases the decompressor, r stays owned by the caller.
func (factory *DecompressorFactory) MakeDecompressor(compression string, r io.Reader) (io.ReadCloser, error) {
	workShop := factory.Get(compression)
	if workShop == nil {
		return nil, errors.Errorf("compression %s is not supported, supported are: %s, %s, %s, %s", compression, GZ, BZ2, XZ, Snappy)
	}
	return workShop(r)
}
