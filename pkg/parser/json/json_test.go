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

package json

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
	for _, engine := range []string{"jsoniter", "std", "go-json"} {
		t.Run(engine, func(t *testing.T) {
			props := cfg.NewCommonCfg()
			props.Put("engine", engine)
			f := parsertest.Format(t, Type, props)

			content := `{"a":1}` + "\n\n" + `{"a":` + "\n" + `["x",true]` + "\n"
			p, err := f.NewParser(parsertest.Input("s", content, 0))
			require.NoError(t, err)
			records, errs := parsertest.Drain(t, p)

			assert.Equal(t, []interface{}{
				map[string]interface{}{"a": float64(1)},
				[]interface{}{"x", true},
			}, parsertest.Values(records))
			assert.Equal(t, []string{"0", "15"}, parsertest.Offsets(records))
			require.Len(t, errs, 1)
			assert.Equal(t, api.ErrCodeMalformed, api.CodeOf(errs[0]))
		})
	}
}

func TestTooLarge(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("maxObjectLength", 8)
	f := parsertest.Format(t, Type, props)

	p, err := f.NewParser(parsertest.Input("s", `{"key":"long value"}`+"\n{}\n", 0))
	require.NoError(t, err)
	records, errs := parsertest.Drain(t, p)
	require.Len(t, errs, 1)
	assert.Equal(t, api.ErrCodeRecordTooLarge, api.CodeOf(errs[0]))
	assert.Equal(t, []interface{}{map[string]interface{}{}}, parsertest.Values(records))
}

func TestObjectExactlyAtLimit(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("maxObjectLength", 7)
	f := parsertest.Format(t, Type, props)

	p, err := f.NewParser(parsertest.Input("s", `{"a":1}`+"\r\n"+`{"b":2}`, 0))
	require.NoError(t, err)
	records, errs := parsertest.Drain(t, p)
	assert.Empty(t, errs)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"a": float64(1)},
		map[string]interface{}{"b": float64(2)},
	}, parsertest.Values(records))
}

func TestUnknownEngine(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("engine", "simd")
	_, err := parser.New(Type, props)
	assert.Equal(t, api.ErrCodeConfig, api.CodeOf(err))
}
