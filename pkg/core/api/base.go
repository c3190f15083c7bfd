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
	"io"
)

const (
	HeaderSourceID  = "sourceId"
	HeaderOffset    = "offset"
	HeaderTruncated = "truncated"
	HeaderFileName  = "fileName"
	HeaderFileSize  = "size"
)

// Record is one structured unit produced by a DataParser.
type Record interface {
	Header() map[string]interface{}
	// Body is the decoded text the record was parsed from.
	Body() []byte
	// Value is the structured content, its type depends on the data format.
	Value() interface{}
	String() string
}

// DataParser yields the records of exactly one source. It is driven by a single
// goroutine; Close may be called from another goroutine to abandon a pending read.
type DataParser interface {
	io.Closer

	// Parse returns the next record, or io.EOF when the source is exhausted.
	// Errors are *DataParserError; recoverable ones leave the parser positioned
	// after the offending record so Parse may be called again.
	Parse() (Record, error)

	// Offset is the position right after the last record returned by Parse.
	Offset() Offset
}

// FileRef is an opaque reference to file content that can be opened on demand,
// used when a file is transferred as a whole instead of being parsed.
type FileRef interface {
	Name() string
	// Size in bytes, -1 when unknown.
	Size() int64
	Open() (io.ReadCloser, error)
}

// StreamParserProvider is the canonical pair of entry points every convenience
// form is built on.
type StreamParserProvider interface {
	// ParserForStream parses a byte stream; offset is a token previously returned
	// by DataParser.Offset().String(), "" or "0" for the start.
	ParserForStream(id string, r io.Reader, offset string) (DataParser, error)
	// ParserForReader parses an UTF-8 character stream; offset counts characters.
	ParserForReader(id string, r io.Reader, offset int64) (DataParser, error)
}

// ParserService resolves sources into parsers and exposes the whole-file policy.
type ParserService interface {
	StreamParserProvider

	ParserForFileRef(id string, metadata map[string]interface{}, ref FileRef) (DataParser, error)

	Charset() string
	SetStringBuilderPoolSize(n int) error
	StringBuilderPoolSize() int

	IsWholeFileFormat() bool
	SuggestedWholeFileBufferSize() int64
	WholeFileRateLimit() (float64, error)
	IsWholeFileChecksumRequired() bool
}
