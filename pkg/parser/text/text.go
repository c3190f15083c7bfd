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
	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/record"
	"github.com/loggie-io/dataformat/pkg/parser"
)

const Type = "text"

type Config struct {
	MaxLineLength int `yaml:"maxLineLength,omitempty" default:"1024" validate:"gte=1"`
}

func init() {
	parser.Register(Type, makeText)
}

func makeText() parser.Format {
	return &Text{
		config: &Config{},
	}
}

// Text yields every line as one record, empty lines included. Lines longer
// than MaxLineLength bytes are cut and flagged with the truncated header.
type Text struct {
	config *Config
}

func (t *Text) Type() string {
	return Type
}

func (t *Text) Config() interface{} {
	return t.config
}

func (t *Text) Init() error {
	return nil
}

func (t *Text) NewParser(in *parser.Input) (api.DataParser, error) {
	lp, err := parser.NewLineParser(in)
	if err != nil {
		return nil, err
	}
	return &Parser{
		LineParser: lp,
		limit:      t.config.MaxLineLength,
	}, nil
}

type Parser struct {
	*parser.LineParser
	limit int
}

func (p *Parser) Parse() (api.Record, error) {
	buf := p.In.Pool.Get()
	defer p.In.Pool.Put(buf)

	start := p.Offset()
	truncated, err := p.NextLine(buf, p.limit)
	if err != nil {
		return nil, err
	}
	p.Commit()

	body, err := p.In.Text(parser.TrimEOL(buf.Bytes()))
	if err != nil {
		return nil, p.Malformed(start, err, "cannot decode line")
	}
	r := record.New(p.In.ID, start, body, string(body))
	if truncated {
		r.Header()[api.HeaderTruncated] = true
	}
	return r, nil
}

var _ api.DataParser = (*Parser)(nil)
