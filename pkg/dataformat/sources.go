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

package dataformat

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

// ParserForBytes parses data from the start.
func ParserForBytes(s api.StreamParserProvider, id string, data []byte) (api.DataParser, error) {
	return s.ParserForStream(id, bytes.NewReader(data), "0")
}

// ParserForBytesRange parses data[start:start+length] from offset, which is
// relative to the range.
func ParserForBytesRange(s api.StreamParserProvider, id string, data []byte, start int, length int, offset string) (api.DataParser, error) {
	if start < 0 || length < 0 || start+length > len(data) {
		return nil, api.NewError(api.ErrCodeSourcePosition, "range [%d, %d) is outside of %d bytes", start, start+length, len(data)).
			WithSource(id)
	}
	return s.ParserForStream(id, bytes.NewReader(data[start:start+length]), offset)
}

// ParserForString parses text as a character source, offsets count characters.
func ParserForString(s api.StreamParserProvider, id string, text string, offset int64) (api.DataParser, error) {
	return s.ParserForReader(id, strings.NewReader(text), offset)
}

// ParserForText parses a character stream from the start.
func ParserForText(s api.StreamParserProvider, id string, r io.Reader) (api.DataParser, error) {
	return s.ParserForReader(id, r, 0)
}

// ParserForFile opens path and parses it from offset. The source id is the
// base name of the file.
func ParserForFile(s api.StreamParserProvider, path string, offset string) (api.DataParser, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeSourceOpen, "cannot open file %s", abs).WithSource(filepath.Base(abs))
	}
	return s.ParserForStream(filepath.Base(abs), f, offset)
}
