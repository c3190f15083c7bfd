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

package parser

import (
	"io"
	"sync"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/util/charset"
	"github.com/loggie-io/dataformat/pkg/util/pool"
)

const DefaultReadBufferSize = 64 * 1024

// Input is everything a Format needs to build a parser for one source. The
// service resolves sources into Inputs; formats never open sources themselves.
type Input struct {
	ID    string
	Start api.Offset

	// Reader yields the content, already decompressed. Nil for file
	// references handed to a whole-file format.
	Reader io.Reader
	// Seeker is set only when Reader can be repositioned directly, i.e. an
	// uncompressed byte source.
	Seeker io.Seeker
	// Decoder converts byte sources into UTF-8, nil for character sources.
	Decoder *charset.Decoder
	Pool    *pool.StringBuilderPool

	Metadata map[string]interface{}
	FileRef  api.FileRef

	ReadBufferSize int

	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

// NewByteInput wraps a byte stream starting at start. The Input takes over r:
// Close closes it when it is an io.Closer.
func NewByteInput(id string, r io.Reader, start api.Offset, decoder *charset.Decoder, p *pool.StringBuilderPool) *Input {
	in := &Input{
		ID:      id,
		Start:   start,
		Reader:  r,
		Decoder: decoder,
		Pool:    p,
	}
	if s, ok := r.(io.Seeker); ok {
		in.Seeker = s
	}
	in.AddCloser(r)
	return in
}

// NewCharInput wraps an UTF-8 character stream, start counts characters.
func NewCharInput(id string, r io.Reader, start int64, p *pool.StringBuilderPool) *Input {
	in := &Input{
		ID:     id,
		Start:  api.NewCharOffset(start),
		Reader: r,
		Pool:   p,
	}
	in.AddCloser(r)
	return in
}

// NewFileRefInput hands an unopened reference to a format.
func NewFileRefInput(id string, metadata map[string]interface{}, ref api.FileRef, start api.Offset, p *pool.StringBuilderPool) *Input {
	return &Input{
		ID:       id,
		Start:    start,
		FileRef:  ref,
		Metadata: metadata,
		Pool:     p,
	}
}

// AddCloser registers c to be closed by Close, after everything registered
// before it. Values that are not io.Closer are ignored.
func (in *Input) AddCloser(c interface{}) {
	if closer, ok := c.(io.Closer); ok {
		in.closers = append(in.closers, closer)
	}
}

// Decompress replaces the content reader with a decompressed view of it.
// The decompressor is closed before the underlying source.
func (in *Input) Decompress(rc io.ReadCloser) {
	in.Reader = rc
	in.Seeker = nil
	in.closers = append([]io.Closer{rc}, in.closers...)
}

// Close releases every registered closer once and reports the first error.
func (in *Input) Close() error {
	in.closeOnce.Do(func() {
		for _, c := range in.closers {
			if err := c.Close(); err != nil && in.closeErr == nil {
				in.closeErr = err
			}
		}
	})
	return in.closeErr
}

// Text converts a raw line into an UTF-8 body the caller owns.
func (in *Input) Text(raw []byte) ([]byte, error) {
	if in.Decoder != nil && in.Decoder.Charset() != charset.UTF8 {
		return in.Decoder.Decode(raw)
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}
