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
	"bytes"
	"io"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

// LineParser carries what every line oriented format shares: the input, the
// counting reader and the offset of the last record handed out.
type LineParser struct {
	In    *Input
	Lines *LineReader

	offset api.Offset
}

// NewLineParser positions a new reader at the start offset of in.
func NewLineParser(in *Input) (*LineParser, error) {
	p := NewUnpositionedLineParser(in)
	if err := p.SkipTo(in.Start.Pos); err != nil {
		return nil, err
	}
	return p, nil
}

// NewUnpositionedLineParser leaves the reader at the beginning of the source,
// for formats that read a preamble before moving to the start offset.
func NewUnpositionedLineParser(in *Input) *LineParser {
	return &LineParser{
		In:     in,
		Lines:  NewLineReader(in),
		offset: api.Offset{Kind: in.Start.Kind},
	}
}

// SkipTo moves to pos and makes it the current offset.
func (p *LineParser) SkipTo(pos int64) error {
	if pos < 0 {
		return api.NewError(api.ErrCodeInvalidOffset, "offset %d is only valid for whole files", pos).
			WithSource(p.In.ID)
	}
	if err := p.Lines.SkipTo(pos); err != nil {
		return api.WrapError(err, api.ErrCodeSourcePosition, "cannot position source at offset %d", pos).
			WithSource(p.In.ID).WithOffset(api.Offset{Kind: p.offset.Kind, Pos: pos})
	}
	p.Commit()
	return nil
}

func (p *LineParser) Offset() api.Offset {
	return p.offset
}

// Commit marks everything read so far as handed out.
func (p *LineParser) Commit() {
	p.offset = p.Lines.Offset()
}

func (p *LineParser) Close() error {
	return p.In.Close()
}

// NextLine reads one raw line into buf. It returns io.EOF untouched and
// turns read failures into fatal errors located at the current offset.
func (p *LineParser) NextLine(buf *bytes.Buffer, limit int) (truncated bool, err error) {
	truncated, err = p.Lines.ReadLine(buf, limit)
	if err == io.EOF {
		return false, io.EOF
	}
	if err != nil {
		return truncated, api.WrapError(err, api.ErrCodeIO, "read failed").
			WithSource(p.In.ID).WithOffset(p.offset)
	}
	return truncated, nil
}

// Malformed builds the recoverable error of a record starting at start.
func (p *LineParser) Malformed(start api.Offset, cause error, format string, args ...interface{}) error {
	return api.WrapError(cause, api.ErrCodeMalformed, format, args...).
		WithSource(p.In.ID).WithOffset(start).AsRecoverable()
}

// TooLarge builds the recoverable error of a record exceeding limit.
func (p *LineParser) TooLarge(start api.Offset, limit int) error {
	return api.NewError(api.ErrCodeRecordTooLarge, "record exceeds %d bytes", limit).
		WithSource(p.In.ID).WithOffset(start).AsRecoverable()
}
