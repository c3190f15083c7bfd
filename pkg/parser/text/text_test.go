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

package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/parser/parsertest"
)

func TestParse(t *testing.T) {
	f := parsertest.Format(t, Type, nil)
	p, err := f.NewParser(parsertest.Input("a.log", "first\r\n\nlast", 0))
	require.NoError(t, err)
	defer p.Close()

	records, errs := parsertest.Drain(t, p)
	assert.Empty(t, errs)
	assert.Equal(t, []interface{}{"first", "", "last"}, parsertest.Values(records))
	assert.Equal(t, []string{"0", "7", "8"}, parsertest.Offsets(records))
	assert.Equal(t, "a.log", records[0].Header()[api.HeaderSourceID])
	assert.Equal(t, "12", p.Offset().String())
}

func TestResume(t *testing.T) {
	content := "l1\nl2\nl3\n"
	f := parsertest.Format(t, Type, nil)

	p, err := f.NewParser(parsertest.Input("a.log", content, 0))
	require.NoError(t, err)
	_, err = p.Parse()
	require.NoError(t, err)
	offset := p.Offset()
	require.NoError(t, p.Close())

	p, err = f.NewParser(parsertest.Input("a.log", content, offset.Pos))
	require.NoError(t, err)
	records, _ := parsertest.Drain(t, p)
	assert.Equal(t, []interface{}{"l2", "l3"}, parsertest.Values(records))
}

func TestTruncate(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("maxLineLength", 5)
	f := parsertest.Format(t, Type, props)

	p, err := f.NewParser(parsertest.Input("a.log", strings.Repeat("x", 12)+"\nshort\n", 0))
	require.NoError(t, err)
	records, _ := parsertest.Drain(t, p)
	require.Len(t, records, 2)
	assert.Equal(t, "xxxxx", records[0].Value())
	assert.Equal(t, true, records[0].Header()[api.HeaderTruncated])
	assert.Equal(t, "short", records[1].Value())
	assert.Nil(t, records[1].Header()[api.HeaderTruncated])
}

func TestLineExactlyAtLimit(t *testing.T) {
	props := cfg.NewCommonCfg()
	props.Put("maxLineLength", 5)
	f := parsertest.Format(t, Type, props)

	p, err := f.NewParser(parsertest.Input("a.log", "short\r\nfives\nsix666", 0))
	require.NoError(t, err)
	records, _ := parsertest.Drain(t, p)
	require.Len(t, records, 3)
	assert.Equal(t, []interface{}{"short", "fives", "six66"}, parsertest.Values(records))
	assert.Equal(t, []string{"0", "7", "13"}, parsertest.Offsets(records))
	assert.Nil(t, records[0].Header()[api.HeaderTruncated])
	assert.Nil(t, records[1].Header()[api.HeaderTruncated])
	assert.Equal(t, true, records[2].Header()[api.HeaderTruncated])
	assert.Equal(t, "19", p.Offset().String())
}

func TestOffsetBeyondEnd(t *testing.T) {
	f := parsertest.Format(t, Type, nil)
	_, err := f.NewParser(parsertest.Input("a.log", "abc\n", 10))
	assert.Equal(t, api.ErrCodeSourcePosition, api.CodeOf(err))
}
