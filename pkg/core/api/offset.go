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

package api

import (
	"strconv"
	"strings"
)

type OffsetKind uint8

const (
	// ByteOffset counts raw bytes read from a byte stream (before charset decoding).
	ByteOffset OffsetKind = iota
	// CharOffset counts characters read from a character stream.
	CharOffset
)

// End marks a source that has been consumed completely, e.g. a whole file
// that was already handed out as a record.
const End int64 = -1

func (k OffsetKind) String() string {
	switch k {
	case ByteOffset:
		return "byte"
	case CharOffset:
		return "char"
	}
	return "unknown"
}

// Offset is the resume position of a DataParser. Passing Offset.String() (or
// Offset.Pos for character sources) back into the service with the same source
// id continues right after the last record returned.
type Offset struct {
	Kind OffsetKind
	Pos  int64
}

func NewByteOffset(pos int64) Offset {
	return Offset{Kind: ByteOffset, Pos: pos}
}

func NewCharOffset(pos int64) Offset {
	return Offset{Kind: CharOffset, Pos: pos}
}

func (o Offset) IsEnd() bool {
	return o.Pos == End
}

// String renders the token handed to callers. It is a plain decimal so tokens
// persisted by older callers stay valid.
func (o Offset) String() string {
	return strconv.FormatInt(o.Pos, 10)
}

// ParseOffset converts a caller token for a byte source. The empty token is
// the start of the source.
func ParseOffset(token string) (Offset, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return NewByteOffset(0), nil
	}
	pos, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return Offset{}, WrapError(err, ErrCodeInvalidOffset, "offset '%s' is not a number", token)
	}
	if pos < End {
		return Offset{}, NewError(ErrCodeInvalidOffset, "offset '%s' is negative", token)
	}
	return NewByteOffset(pos), nil
}
