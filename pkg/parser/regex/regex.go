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
	"regexp"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/record"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/util"
)

const Type = "regex"

type Config struct {
	Pattern       string `yaml:"pattern,omitempty" validate:"required"`
	MaxLineLength int    `yaml:"maxLineLength,omitempty" default:"1024" validate:"gte=1"`
}

func (c *Config) Validate() error {
	r, err := util.CompilePatternWithJavaStyle(c.Pattern)
	if err != nil {
		return err
	}
	if r.NumSubexp() == 0 {
		return errors.Errorf("pattern %s has no capturing group", c.Pattern)
	}
	return nil
}

func init() {
	parser.Register(Type, makeRegex)
}

func makeRegex() parser.Format {
	return &Regex{
		config: &Config{},
	}
}

// Regex matches every non blank line against a pattern with named groups.
// The record value maps group names to the matched text.
type Regex struct {
	config *Config
	regex  *regexp.Regexp
}

func (r *Regex) Type() string {
	return Type
}

func (r *Regex) Config() interface{} {
	return r.config
}

func (r *Regex) Init() error {
	r.regex = util.MustCompilePatternWithJavaStyle(r.config.Pattern)
	return nil
}

func (r *Regex) NewParser(in *parser.Input) (api.DataParser, error) {
	lp, err := parser.NewLineParser(in)
	if err != nil {
		return nil, err
	}
	return &Parser{
		LineParser: lp,
		format:     r,
	}, nil
}

type Parser struct {
	*parser.LineParser
	format *Regex
}

var _ api.DataParser = (*Parser)(nil)

func (p *Parser) Parse() (api.Record, error) {
	buf := p.In.Pool.Get()
	defer p.In.Pool.Put(buf)

	limit := p.format.config.MaxLineLength
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

		line := parser.TrimEOL(buf.Bytes())
		if len(line) == 0 {
			continue
		}
		body, err := p.In.Text(line)
		if err != nil {
			return nil, p.Malformed(start, err, "cannot decode line")
		}

		paramsMap := util.MatchGroupWithRegex(p.format.regex, string(body))
		if paramsMap == nil {
			return nil, p.Malformed(start, nil, "line does not match pattern %s", p.format.config.Pattern)
		}
		return record.New(p.In.ID, start, body, paramsMap), nil
	}
}
