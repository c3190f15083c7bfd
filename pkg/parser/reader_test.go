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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

// onlyReader hides Seek and Close of the wrapped reader.
type onlyReader struct {
	io.Reader
}

func readAll(t *testing.T, l *LineReader, limit int) []string {
	var lines []string
	for {
		buf := &bytes.Buffer{}
		_, err := l.ReadLine(buf, limit)
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, buf.String())
	}
}

func TestReadLineCountsBytes(t *testing.T) {
	in := NewByteInput("t", strings.NewReader("ab\r\n\nlast"), api.NewByteOffset(0), nil, nil)
	l := NewLineReader(in)

	buf := &bytes.Buffer{}
	_, err := l.ReadLine(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "ab\r\n", buf.String())
	assert.Equal(t, int64(4), l.Pos())

	assert.Equal(t, []string{"\n", "last"}, readAll(t, l, 0))
	assert.Equal(t, int64(9), l.Pos())
}

func TestReadLineCountsChars(t *testing.T) {
	in := NewCharInput("t", strings.NewReader("héllo\n世界\n"), 0, nil)
	l := NewLineReader(in)

	assert.Equal(t, []string{"héllo\n", "世界\n"}, readAll(t, l, 0))
	assert.Equal(t, int64(9), l.Pos())
	assert.Equal(t, api.CharOffset, l.Offset().Kind)
}

func TestReadLineLongerThanBuffer(t *testing.T) {
	long := strings.Repeat("x", 100)
	in := NewByteInput("t", onlyReader{strings.NewReader(long + "\nnext\n")}, api.NewByteOffset(0), nil, nil)
	in.ReadBufferSize = 16
	l := NewLineReader(in)

	assert.Equal(t, []string{long + "\n", "next\n"}, readAll(t, l, 0))
}

func TestReadLineTruncates(t *testing.T) {
	in := NewByteInput("t", strings.NewReader("0123456789\nab\n"), api.NewByteOffset(0), nil, nil)
	l := NewLineReader(in)

	buf := &bytes.Buffer{}
	truncated, err := l.ReadLine(buf, 4)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, "0123", buf.String())
	assert.Equal(t, int64(11), l.Pos())

	buf.Reset()
	truncated, err = l.ReadLine(buf, 4)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "ab\n", buf.String())
}

func TestReadLineLimitExcludesTerminator(t *testing.T) {
	long := strings.Repeat("x", 20)
	in := NewByteInput("t", onlyReader{strings.NewReader(long + "\r\n" + long + "\n" + long + "y")}, api.NewByteOffset(0), nil, nil)
	in.ReadBufferSize = 16
	l := NewLineReader(in)

	for _, want := range []string{long + "\r\n", long + "\n"} {
		buf := &bytes.Buffer{}
		truncated, err := l.ReadLine(buf, 20)
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, want, buf.String())
	}

	buf := &bytes.Buffer{}
	truncated, err := l.ReadLine(buf, 20)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, long, buf.String())
	assert.Equal(t, int64(64), l.Pos())
}

func TestSkipTo(t *testing.T) {
	content := "line1\nline2\nline3\n"
	tests := []struct {
		name string
		in   *Input
	}{
		{name: "seek", in: NewByteInput("t", strings.NewReader(content), api.NewByteOffset(0), nil, nil)},
		{name: "discard", in: NewByteInput("t", onlyReader{strings.NewReader(content)}, api.NewByteOffset(0), nil, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLineReader(tt.in)
			require.NoError(t, l.SkipTo(6))
			assert.Equal(t, int64(6), l.Pos())
			assert.Equal(t, []string{"line2\n", "line3\n"}, readAll(t, l, 0))
		})
	}
}

func TestSkipToSeekRelativeToStart(t *testing.T) {
	r := strings.NewReader("skip\nline1\nline2\n")
	_, err := r.Seek(5, io.SeekStart)
	require.NoError(t, err)

	l := NewLineReader(NewByteInput("t", r, api.NewByteOffset(0), nil, nil))
	require.NoError(t, l.SkipTo(6))
	assert.Equal(t, []string{"line2\n"}, readAll(t, l, 0))
}

func TestSkipToChars(t *testing.T) {
	l := NewLineReader(NewCharInput("t", strings.NewReader("世界\nhé\n"), 0, nil))
	require.NoError(t, l.SkipTo(3))
	assert.Equal(t, []string{"hé\n"}, readAll(t, l, 0))
	assert.Equal(t, int64(6), l.Pos())

	l = NewLineReader(NewCharInput("t", strings.NewReader("世界\n"), 0, nil))
	require.NoError(t, l.SkipTo(3))
	assert.Empty(t, readAll(t, l, 0))
}

func TestSkipToBeyondEnd(t *testing.T) {
	for _, in := range []*Input{
		NewByteInput("t", strings.NewReader("abc\n"), api.NewByteOffset(0), nil, nil),
		NewByteInput("t", onlyReader{strings.NewReader("abc\n")}, api.NewByteOffset(0), nil, nil),
		NewCharInput("t", strings.NewReader("abc\n"), 0, nil),
	} {
		l := NewLineReader(in)
		assert.Error(t, l.SkipTo(5))
	}
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, "a", string(TrimEOL([]byte("a\r\n"))))
	assert.Equal(t, "a", string(TrimEOL([]byte("a\n"))))
	assert.Equal(t, "a\r", string(TrimEOL([]byte("a\r"))))
	assert.Equal(t, "", string(TrimEOL([]byte("\n"))))
}

type countingCloser struct {
	io.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestInputCloseOnce(t *testing.T) {
	src := &countingCloser{Reader: strings.NewReader("x")}
	dec := &countingCloser{Reader: strings.NewReader("x")}
	in := NewByteInput("t", src, api.NewByteOffset(0), nil, nil)
	in.Decompress(dec)
	assert.Nil(t, in.Seeker)

	assert.NoError(t, in.Close())
	assert.NoError(t, in.Close())
	assert.Equal(t, 1, src.closed)
	assert.Equal(t, 1, dec.closed)
}
