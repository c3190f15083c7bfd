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

package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/parser/parsertest"
)

func TestParse(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("pattern", `^(?<time>[^ ^Z]+Z) (?<stream>stdout|stderr) (?P<log>.*)$`)
	f := parsertest.Format(t, Type, props)

	content := "2021-12-01T03:13:58.298476921Z stderr INFO starting\n" +
		"garbage\n" +
		"\n" +
		"2021-12-01T03:13:59Z stdout done\n"
	p, err := f.NewParser(parsertest.Input("s", content, 0))
	require.NoError(t, err)
	records, errs := parsertest.Drain(t, p)

	assert.Equal(t, []interface{}{
		map[string]string{"time": "2021-12-01T03:13:58.298476921Z", "stream": "stderr", "log": "INFO starting"},
		map[string]string{"time": "2021-12-01T03:13:59Z", "stream": "stdout", "log": "done"},
	}, parsertest.Values(records))
	require.Len(t, errs, 1)
	var de *api.DataParserError
	require.ErrorAs(t, errs[0], &de)
	assert.Equal(t, api.ErrCodeMalformed, de.Code)
	assert.Equal(t, "52", de.Offset)
	assert.True(t, de.Recoverable)
}

func TestInvalidPattern(t *testing.T) {
	for _, pattern := range []string{"", "(?<open", "no groups"} {
		props := cfg.NewCommonCfg()
		props.Put("pattern", pattern)
		_, err := parser.New(Type, props)
		assert.Equal(t, api.ErrCodeConfig, api.CodeOf(err), pattern)
	}
}
