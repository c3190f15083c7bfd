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

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/record"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/util/size"
	"github.com/loggie-io/dataformat/pkg/wholefile"
)

const Type = "wholefile"

type Config struct {
	BufferSize        size.Size `yaml:"bufferSize,omitempty"`
	RateLimit         string    `yaml:"rateLimit,omitempty" default:"-1"`
	ChecksumRequired  bool      `yaml:"checksumRequired,omitempty"`
	ChecksumAlgorithm string    `yaml:"checksumAlgorithm,omitempty" default:"md5" validate:"oneof=md5 sha1 sha256 sha512 xxhash64"`
}

func (c *Config) SetDefaults() {
	if c.BufferSize.Bytes <= 0 {
		c.BufferSize.Bytes = wholefile.DefaultBufferSize
	}
}

func init() {
	parser.Register(Type, makeWholeFile)
}

func makeWholeFile() parser.Format {
	return &WholeFile{
		config: &Config{},
	}
}

// WholeFile does not look into the content. Every source becomes a single
// record whose value is a *wholefile.FileRecord the caller transfers.
type WholeFile struct {
	config *Config
}

func (w *WholeFile) Type() string {
	return Type
}

func (w *WholeFile) Config() interface{} {
	return w.config
}

func (w *WholeFile) Init() error {
	return nil
}

func (w *WholeFile) Policy() wholefile.Policy {
	return wholefile.Policy{
		Enabled:           true,
		BufferSize:        w.config.BufferSize.Bytes,
		RateLimit:         w.config.RateLimit,
		ChecksumRequired:  w.config.ChecksumRequired,
		ChecksumAlgorithm: w.config.ChecksumAlgorithm,
	}
}

// NewParser accepts only offset 0, before the record, and api.End, after it.
func (w *WholeFile) NewParser(in *parser.Input) (api.DataParser, error) {
	if in.FileRef == nil {
		return nil, api.NewError(api.ErrCodeUnsupportedSource, "whole file format needs a file reference").
			WithSource(in.ID)
	}
	if in.Start.Pos != 0 && !in.Start.IsEnd() {
		return nil, api.NewError(api.ErrCodeInvalidOffset, "whole file offset must be 0 or %d", api.End).
			WithSource(in.ID).WithOffset(in.Start)
	}
	return &Parser{
		in:     in,
		policy: w.Policy(),
		offset: in.Start,
	}, nil
}

type Parser struct {
	in     *parser.Input
	policy wholefile.Policy
	offset api.Offset
}

var _ api.DataParser = (*Parser)(nil)

func (p *Parser) Parse() (api.Record, error) {
	if p.offset.IsEnd() {
		return nil, io.EOF
	}
	start := p.offset
	ref := p.in.FileRef
	r := record.New(p.in.ID, start, nil, &wholefile.FileRecord{
		Ref:      ref,
		Policy:   p.policy,
		Metadata: p.in.Metadata,
	})
	r.Header()[api.HeaderFileName] = ref.Name()
	r.Header()[api.HeaderFileSize] = ref.Size()
	p.offset = api.Offset{Kind: start.Kind, Pos: api.End}
	return r, nil
}

func (p *Parser) Offset() api.Offset {
	return p.offset
}

func (p *Parser) Close() error {
	return p.in.Close()
}
