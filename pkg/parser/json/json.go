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
	"bytes"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/record"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/util/json"
)

const Type = "json"

type Config struct {
	MaxObjectLength int    `yaml:"maxObjectLength,omitempty" default:"4096" validate:"gte=1"`
	Engine          string `yaml:"engine,omitempty" default:"jsoniter"`
}

func (c *Config) Validate() error {
	if _, ok := json.Get(c.Engine); !ok {
		return errors.Errorf("json engine %s is not supported", c.Engine)
	}
	return nil
}

func init() {
	parser.Register(Type, makeJSON)
}

func makeJSON() parser.Format {
	return &JSON{
		config: &Config{},
	}
}

// JSON reads one JSON value per line. Blank lines are skipped.
type JSON struct {
	config *Config
	engine json.JSON
}

func (j *JSON) Type() string {
	return Type
}

func (j *JSON) Config() interface{} {
	return j.config
}

func (j *JSON) Init() error {
	j.engine, _ = json.Get(j.config.Engine)
	return nil
}

func (j *JSON) NewParser(in *parser.Input) (api.DataParser, error) {
	lp, err := parser.NewLineParser(in)
	if err != nil {
		return nil, err
	}
	return &Parser{
		LineParser: lp,
		format:     j,
	}, nil
}

type Parser struct {
	*parser.LineParser
	format *JSON
}

var _ api.DataParser = (*Parser)(nil)

func (p *Parser) Parse() (api.Record, error) {
	buf := p.In.Pool.Get()
	defer p.In.Pool.Put(buf)

	limit := p.format.config.MaxObjectLength
	for {
		start := p.Offset()
		buf.Reset()
		truncated, err := p.NextLine(buf, limit)
		if err != nil {
			return nil, err
		}
		p.Commit()
		if truncated {
			return nil, p.TooLarge(start, limit)
		}

		line := bytes.TrimSpace(parser.TrimEOL(buf.Bytes()))
		if len(line) == 0 {
			continue
		}

		body, err := p.In.Text(line)
		if err != nil {
			return nil, p.Malformed(start, err, "cannot decode line")
		}
		var value interface{}
		if err := p.format.engine.Unmarshal(body, &value); err != nil {
			return nil, p.Malformed(start, err, "invalid json")
		}
		return record.New(p.In.ID, start, body, value), nil
	}
}
