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

// Package parsertest drives formats in tests without going through the service.
package parsertest

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/util/charset"
	"github.com/loggie-io/dataformat/pkg/util/pool"
)

// Format configures a registered format or fails the test.
func Format(t *testing.T, typ string, properties cfg.CommonCfg) parser.Format {
	t.Helper()
	f, err := parser.New(typ, properties)
	require.NoError(t, err)
	return f
}

// Input wraps content as an utf-8 byte source starting at offset.
func Input(id string, content string, offset int64) *parser.Input {
	d, _ := charset.NewDecoder(charset.UTF8)
	return parser.NewByteInput(id, strings.NewReader(content), api.NewByteOffset(offset), d, pool.NewStringBuilderPool(1))
}

// Drain parses until io.EOF. Recoverable errors are collected and skipped,
// any other error fails the test.
func Drain(t *testing.T, p api.DataParser) (records []api.Record, recoverable []error) {
	t.Helper()
	for {
		r, err := p.Parse()
		if err == io.EOF {
			return
		}
		if err != nil {
			require.True(t, api.IsRecoverable(err), "unexpected error: %v", err)
			recoverable = append(recoverable, err)
			continue
		}
		records = append(records, r)
	}
}

// Values returns the Value of every record.
func Values(records []api.Record) []interface{} {
	values := make([]interface{}, 0, len(records))
	for _, r := range records {
		values = append(values, r.Value())
	}
	return values
}

// Offsets returns the start offset header of every record.
func Offsets(records []api.Record) []string {
	offsets := make([]string, 0, len(records))
	for _, r := range records {
		offsets = append(offsets, r.Header()[api.HeaderOffset].(string))
	}
	return offsets
}
