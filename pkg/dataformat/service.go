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
	"io"
	"os"
	"sync"

	"github.com/creasty/defaults"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/util/charset"
	"github.com/loggie-io/dataformat/pkg/util/decompress"
	"github.com/loggie-io/dataformat/pkg/util/pool"
	"github.com/loggie-io/dataformat/pkg/wholefile"
)

// Service turns sources into parsers of one configured data format. It is
// safe for concurrent use; every parser it returns belongs to the caller.
type Service struct {
	charset        string
	compression    string
	readBufferSize int
	format         parser.Format
	policy         wholefile.Policy

	mu   sync.RWMutex
	pool *pool.StringBuilderPool
}

var _ api.ParserService = (*Service)(nil)

// wholeFileFormat is implemented by formats that hand out files instead of records.
type wholeFileFormat interface {
	Policy() wholefile.Policy
}

func New(config *Config) (*Service, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := defaults.Set(config); err != nil {
		return nil, api.WrapError(err, api.ErrCodeConfig, "apply service defaults")
	}

	name, ok := charset.Canonical(config.Charset)
	if !ok {
		return nil, api.NewError(api.ErrCodeCharset, "charset %s is not supported", config.Charset)
	}
	if config.StringBuilderPoolSize <= 0 {
		return nil, api.NewError(api.ErrCodePoolSize, "string builder pool size must be positive, got %d", config.StringBuilderPoolSize)
	}
	if !decompress.GetOrCreateDecompressorFactory().Supported(config.Compression) {
		return nil, api.NewError(api.ErrCodeConfig, "compression %s is not supported", config.Compression)
	}

	format, err := parser.New(config.Format.GetType(), config.Format)
	if err != nil {
		return nil, err
	}

	s := &Service{
		charset:        name,
		compression:    config.Compression,
		readBufferSize: int(config.ReadBufferSize.Bytes),
		format:         format,
		policy:         wholefile.Disabled(),
		pool:           newPool(config.StringBuilderPoolSize),
	}
	if wf, ok := format.(wholeFileFormat); ok {
		s.policy = wf.Policy()
	}

	log.Info("data format service configured: format=%s, charset=%s, compression=%s, stringBuilderPoolSize=%d, wholeFile=%t",
		format.Type(), s.charset, s.compression, config.StringBuilderPoolSize, s.policy.Enabled)
	return s, nil
}

func newPool(n int) *pool.StringBuilderPool {
	p := pool.NewStringBuilderPool(n)
	p.ObserveWaits(poolWaitsTotal.Inc)
	return p
}

func (s *Service) Format() string {
	return s.format.Type()
}

func (s *Service) Charset() string {
	return s.charset
}

// SetStringBuilderPoolSize replaces the shared pool. Parsers created before
// keep the pool they started with, the new size applies to later parsers.
func (s *Service) SetStringBuilderPoolSize(n int) error {
	if n <= 0 {
		return api.NewError(api.ErrCodePoolSize, "string builder pool size must be positive, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool.Capacity() == n {
		return nil
	}
	log.Warn("string builder pool resized from %d to %d, effective for parsers created from now on", s.pool.Capacity(), n)
	s.pool = newPool(n)
	return nil
}

func (s *Service) StringBuilderPoolSize() int {
	return s.currentPool().Capacity()
}

func (s *Service) currentPool() *pool.StringBuilderPool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

func (s *Service) IsWholeFileFormat() bool {
	return s.policy.Enabled
}

// WholeFilePolicy is the policy attached to whole-file records. It is the
// disabled policy when the service parses records.
func (s *Service) WholeFilePolicy() wholefile.Policy {
	return s.policy
}

// SuggestedWholeFileBufferSize is wholefile.DefaultBufferSize unless whole
// file mode configures another size.
func (s *Service) SuggestedWholeFileBufferSize() int64 {
	return s.policy.SuggestedBufferSize()
}

// WholeFileRateLimit returns bytes per second or wholefile.Unlimited, which
// is also the answer when whole file mode is off.
func (s *Service) WholeFileRateLimit() (float64, error) {
	return s.policy.ResolveRateLimit()
}

// IsWholeFileChecksumRequired is always false when whole file mode is off.
func (s *Service) IsWholeFileChecksumRequired() bool {
	return s.policy.IsChecksumRequired()
}

// ParserForStream parses a byte stream from offset, a token returned by
// an earlier parser for the same id. The parser owns r from now on.
func (s *Service) ParserForStream(id string, r io.Reader, offset string) (api.DataParser, error) {
	start, err := api.ParseOffset(offset)
	if err != nil {
		closeQuietly(r)
		return nil, withSource(err, id)
	}

	if s.policy.Enabled {
		return s.wholeFileParser(id, nil, wholefile.NewStreamRef(id, r, sizeOf(r)), start, r)
	}

	in, err := s.byteInput(id, r, start)
	if err != nil {
		return nil, err
	}
	return s.newParser(in)
}

// ParserForReader parses an UTF-8 character stream, offset counts the
// characters consumed by earlier parsers for the same id.
func (s *Service) ParserForReader(id string, r io.Reader, offset int64) (api.DataParser, error) {
	if offset < api.End {
		closeQuietly(r)
		return nil, api.NewError(api.ErrCodeInvalidOffset, "offset %d is negative", offset).WithSource(id)
	}
	if s.policy.Enabled {
		return s.wholeFileParser(id, nil, wholefile.NewStreamRef(id, r, -1), api.NewCharOffset(offset), r)
	}

	in := parser.NewCharInput(id, r, offset, s.currentPool())
	in.ReadBufferSize = s.readBufferSize
	return s.newParser(in)
}

// ParserForFileRef hands the reference to whole-file formats untouched. Record
// formats open it and parse it from the beginning.
func (s *Service) ParserForFileRef(id string, metadata map[string]interface{}, ref api.FileRef) (api.DataParser, error) {
	if ref == nil {
		return nil, api.NewError(api.ErrCodeUnsupportedSource, "file reference is nil").WithSource(id)
	}
	if s.policy.Enabled {
		return s.wholeFileParser(id, metadata, ref, api.NewByteOffset(0), nil)
	}

	rc, err := ref.Open()
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeSourceOpen, "cannot open %s", ref.Name()).WithSource(id)
	}
	in, err := s.byteInput(id, rc, api.NewByteOffset(0))
	if err != nil {
		return nil, err
	}
	in.Metadata = metadata
	return s.newParser(in)
}

// byteInput applies charset and compression to a byte source. On failure r
// is closed.
func (s *Service) byteInput(id string, r io.Reader, start api.Offset) (*parser.Input, error) {
	decoder, err := charset.NewDecoder(s.charset)
	if err != nil {
		closeQuietly(r)
		return nil, api.WrapError(err, api.ErrCodeCharset, "charset %s", s.charset).WithSource(id)
	}
	in := parser.NewByteInput(id, r, start, decoder, s.currentPool())
	in.ReadBufferSize = s.readBufferSize

	factory := decompress.GetOrCreateDecompressorFactory()
	if compression := factory.Resolve(s.compression, id); compression != decompress.None {
		rc, err := factory.MakeDecompressor(compression, r)
		if err != nil {
			in.Close()
			return nil, api.WrapError(err, api.ErrCodeSourceOpen, "cannot open %s stream", compression).WithSource(id)
		}
		in.Decompress(rc)
	}
	return in, nil
}

// wholeFileParser wraps ref into a single record parser. A stream the ref was
// built on stays open until the parser is closed, so the record has to be
// transferred before that.
func (s *Service) wholeFileParser(id string, metadata map[string]interface{}, ref api.FileRef, start api.Offset, stream io.Reader) (api.DataParser, error) {
	in := parser.NewFileRefInput(id, metadata, ref, start, s.currentPool())
	in.AddCloser(stream)
	return s.newParser(in)
}

func (s *Service) newParser(in *parser.Input) (api.DataParser, error) {
	p, err := s.format.NewParser(in)
	if err != nil {
		in.Close()
		return nil, withSource(err, in.ID)
	}
	return newTrackedParser(in.ID, s.format.Type(), p), nil
}

func withSource(err error, id string) error {
	if de, ok := err.(*api.DataParserError); ok && de.SourceID == "" {
		de.SourceID = id
	}
	return err
}

func closeQuietly(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}

func sizeOf(r io.Reader) int64 {
	switch v := r.(type) {
	case *os.File:
		if info, err := v.Stat(); err == nil {
			return info.Size()
		}
	case interface{ Len() int }:
		return int64(v.Len())
	}
	return -1
}
