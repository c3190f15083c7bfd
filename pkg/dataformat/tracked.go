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
	"strconv"

	"go.uber.org/atomic"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/wholefile"
)

// trackedParser is what the service hands out: it counts records and errors
// and guards the format parser against use after Close.
type trackedParser struct {
	api.DataParser

	id     string
	format string
	closed *atomic.Bool
}

func newTrackedParser(id string, format string, p api.DataParser) *trackedParser {
	parsersOpen.WithLabelValues(format).Inc()
	log.Debug("parser opened: source=%s, format=%s, offset=%s", id, format, p.Offset())
	return &trackedParser{
		DataParser: p,
		id:         id,
		format:     format,
		closed:     atomic.NewBool(false),
	}
}

func (t *trackedParser) Parse() (api.Record, error) {
	if t.closed.Load() {
		return nil, api.NewError(api.ErrCodeClosed, "parser is closed").WithSource(t.id).WithOffset(t.Offset())
	}

	r, err := t.DataParser.Parse()
	if err == nil {
		recordsTotal.WithLabelValues(t.format).Inc()
		if fr, ok := r.Value().(*wholefile.FileRecord); ok {
			fr.OnRead = func(n int) {
				wholeFileBytesTotal.Add(float64(n))
			}
		}
		return r, nil
	}
	if err == io.EOF {
		return nil, io.EOF
	}

	// A concurrent Close makes the pending read fail, report that as such.
	if t.closed.Load() {
		return nil, api.WrapError(err, api.ErrCodeClosed, "parser was closed during read").WithSource(t.id).WithOffset(t.Offset())
	}

	recoverable := api.IsRecoverable(err)
	parseErrorsTotal.WithLabelValues(t.format, string(api.CodeOf(err)), strconv.FormatBool(recoverable)).Inc()
	if recoverable {
		log.Warn("skip record of %s: %v", t.id, err)
	} else {
		log.Error("parse %s failed: %v", t.id, err)
	}
	return nil, err
}

// Close is idempotent and may be called from another goroutine to abandon a
// pending Parse.
func (t *trackedParser) Close() error {
	if !t.closed.CAS(false, true) {
		return nil
	}
	parsersOpen.WithLabelValues(t.format).Dec()
	log.Debug("parser closed: source=%s", t.id)
	return t.DataParser.Close()
}
