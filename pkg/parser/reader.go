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
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

const discardChunk = 1 << 30

// LineReader reads raw lines and keeps track of how far into the source it
// is, in bytes or in characters depending on the offset kind of the source.
type LineReader struct {
	src    io.Reader
	r      *bufio.Reader
	seeker io.Seeker
	unit   api.OffsetKind
	pos    int64
}

func NewLineReader(in *Input) *LineReader {
	size := in.ReadBufferSize
	if size <= 0 {
		size = DefaultReadBufferSize
	}
	l := &LineReader{
		src:  in.Reader,
		r:    bufio.NewReaderSize(in.Reader, size),
		unit: in.Start.Kind,
	}
	if l.unit == api.ByteOffset {
		l.seeker = in.Seeker
	}
	return l
}

// Pos is the offset right after the last byte or character handed out.
func (l *LineReader) Pos() int64 {
	return l.pos
}

func (l *LineReader) Offset() api.Offset {
	return api.Offset{Kind: l.unit, Pos: l.pos}
}

// utf-8 continuation bytes look like 10xxxxxx, every other byte starts a character.
func isLeadByte(b byte) bool {
	return b&0xC0 != 0x80
}

func countChars(p []byte) int64 {
	var n int64
	for _, b := range p {
		if isLeadByte(b) {
			n++
		}
	}
	return n
}

func (l *LineReader) advance(p []byte) {
	if l.unit == api.CharOffset {
		l.pos += countChars(p)
		return
	}
	l.pos += int64(len(p))
}

// ReadLine appends the next line, terminator included, to buf. When limit is
// positive it bounds buf without the terminator of the line: a longer line is
// consumed and dropped past limit bytes, its terminator is not kept, and
// truncated is true. A last line without terminator is returned with a nil
// error; io.EOF is returned only when nothing was left to read.
func (l *LineReader) ReadLine(buf *bytes.Buffer, limit int) (truncated bool, err error) {
	base := buf.Len()
	read := 0
	var tail [2]byte
	for {
		chunk, err := l.r.ReadSlice('\n')
		read += len(chunk)
		l.advance(chunk)
		tail = lastTwo(tail, chunk)

		// up to "\r\n" may follow limit bytes of content
		if room := limit + 2 - buf.Len(); limit > 0 && room < len(chunk) {
			if room > 0 {
				buf.Write(chunk[:room])
			}
		} else {
			buf.Write(chunk)
		}

		switch {
		case err == nil:
			return truncateLine(buf, limit, base+read-eolLen(tail)), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF:
			if read == 0 {
				return false, io.EOF
			}
			return truncateLine(buf, limit, base+read-eolLen(tail)), nil
		default:
			return false, err
		}
	}
}

// truncateLine cuts buf down to limit when the content, length bytes without
// terminator, does not fit.
func truncateLine(buf *bytes.Buffer, limit int, length int) bool {
	if limit <= 0 || length <= limit {
		return false
	}
	if buf.Len() > limit {
		buf.Truncate(limit)
	}
	return true
}

func lastTwo(tail [2]byte, chunk []byte) [2]byte {
	switch n := len(chunk); {
	case n >= 2:
		return [2]byte{chunk[n-2], chunk[n-1]}
	case n == 1:
		return [2]byte{tail[1], chunk[0]}
	}
	return tail
}

func eolLen(tail [2]byte) int {
	if tail[1] != '\n' {
		return 0
	}
	if tail[0] == '\r' {
		return 2
	}
	return 1
}

// SkipTo moves forward to target. Uncompressed byte sources that can seek are
// repositioned directly, everything else is read and dropped. Positioning
// past the end of the source fails.
func (l *LineReader) SkipTo(target int64) error {
	if target <= l.pos {
		return nil
	}

	if l.seeker != nil {
		return l.seekTo(target)
	}

	if l.unit == api.ByteOffset {
		for l.pos < target {
			n := target - l.pos
			if n > discardChunk {
				n = discardChunk
			}
			discarded, err := l.r.Discard(int(n))
			l.pos += int64(discarded)
			if err == io.EOF {
				return errors.Errorf("source ends at byte %d before offset %d", l.pos, target)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	// Stop right before the lead byte of the character at target, so the
	// continuation bytes of the last skipped character are consumed too.
	remaining := target - l.pos
	for {
		b, err := l.r.Peek(1)
		if err == io.EOF {
			if remaining == 0 {
				return nil
			}
			return errors.Errorf("source ends at character %d before offset %d", l.pos, target)
		}
		if err != nil {
			return err
		}
		if isLeadByte(b[0]) {
			if remaining == 0 {
				return nil
			}
			remaining--
			l.pos++
		}
		if _, err := l.r.Discard(1); err != nil {
			return err
		}
	}
}

func (l *LineReader) seekTo(target int64) error {
	// Offsets are relative to where the source stood when it was handed over.
	base, err := l.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.WithMessage(err, "get current position")
	}
	base -= int64(l.r.Buffered()) + l.pos

	end, err := l.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.WithMessage(err, "get source size")
	}
	if base+target > end {
		return errors.Errorf("source ends at byte %d before offset %d", end-base, target)
	}

	if _, err := l.seeker.Seek(base+target, io.SeekStart); err != nil {
		return errors.WithMessagef(err, "seek to %d", target)
	}
	l.r.Reset(l.src)
	l.pos = target
	return nil
}

// TrimEOL strips a trailing "\n" or "\r\n".
func TrimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
