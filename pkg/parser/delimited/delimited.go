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

package delimited

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/record"
	"github.com/loggie-io/dataformat/pkg/parser"
)

const Type = "delimited"

func init() {
	parser.Register(Type, makeDelimited)
}

func makeDelimited() parser.Format {
	return &Delimited{
		config: &Config{},
	}
}

// Delimited parses character separated values. Quoted fields may contain
// delimiters, doubled quotes and line breaks.
type Delimited struct {
	config *Config

	delimiter rune
	quote     rune
	comment   rune
}

func (d *Delimited) Type() string {
	return Type
}

func (d *Delimited) Config() interface{} {
	return d.config
}

func (d *Delimited) Init() error {
	d.delimiter, _ = utf8.DecodeRuneInString(d.config.Delimiter)
	d.quote, _ = utf8.DecodeRuneInString(d.config.Quote)
	if d.config.Comment != "" {
		d.comment, _ = utf8.DecodeRuneInString(d.config.Comment)
	}
	return nil
}

func (d *Delimited) NewParser(in *parser.Input) (api.DataParser, error) {
	p := &Parser{
		LineParser: parser.NewUnpositionedLineParser(in),
		format:     d,
	}

	// The header is read again on every resume so records keep their names.
	if d.config.Header != HeaderNone {
		buf := &bytes.Buffer{}
		for {
			fields, _, err := p.next(buf)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			if fields != nil {
				if d.config.Header == HeaderWith {
					p.names = fields
				}
				break
			}
		}
	}

	if err := p.SkipTo(in.Start.Pos); err != nil {
		return nil, err
	}
	return p, nil
}

type Parser struct {
	*parser.LineParser
	format *Delimited
	names  []string
}

var _ api.DataParser = (*Parser)(nil)

func (p *Parser) Parse() (api.Record, error) {
	buf := p.In.Pool.Get()
	defer p.In.Pool.Put(buf)

	for {
		start := p.Offset()
		fields, body, err := p.next(buf)
		if err != nil {
			return nil, err
		}
		if fields == nil {
			continue
		}
		return record.New(p.In.ID, start, body, p.value(fields)), nil
	}
}

func (p *Parser) value(fields []string) interface{} {
	if p.names == nil {
		return fields
	}
	v := make(map[string]interface{}, len(fields))
	for i, f := range fields {
		if i < len(p.names) {
			v[p.names[i]] = f
		} else {
			v["_"+strconv.Itoa(i+1)] = f
		}
	}
	return v
}

// next reads one logical record, which spans several lines when a quoted
// field contains line breaks. Blank and comment lines give nil fields.
func (p *Parser) next(buf *bytes.Buffer) (fields []string, body []byte, err error) {
	start := p.Offset()
	limit := p.format.config.MaxRecordLength

	buf.Reset()
	truncated, err := p.NextLine(buf, limit)
	if err != nil {
		return nil, nil, err
	}

	first := parser.TrimEOL(buf.Bytes())
	if len(first) == 0 {
		p.Commit()
		return nil, nil, nil
	}

	for {
		if truncated {
			p.Commit()
			return nil, nil, p.TooLarge(start, limit)
		}

		text, err := p.In.Text(parser.TrimEOL(buf.Bytes()))
		if err != nil {
			p.Commit()
			return nil, nil, p.Malformed(start, err, "cannot decode record")
		}
		if p.format.comment != 0 {
			if r, _ := utf8.DecodeRune(text); r == p.format.comment {
				p.Commit()
				return nil, nil, nil
			}
		}

		fields, open, err := p.split(string(text))
		if err != nil {
			p.Commit()
			return nil, nil, p.Malformed(start, err, "malformed record")
		}
		if !open {
			p.Commit()
			return fields, text, nil
		}

		truncated, err = p.NextLine(buf, limit)
		if err == io.EOF {
			p.Commit()
			return nil, nil, p.Malformed(start, nil, "quoted field is not closed at end of source")
		}
		if err != nil {
			return nil, nil, err
		}
	}
}

// split cuts one record into fields. open reports a quoted field that
// continues on the next line.
func (p *Parser) split(rec string) (fields []string, open bool, err error) {
	c := p.format.config
	var field strings.Builder
	inQuotes := false
	quoted := false

	finish := func() {
		f := field.String()
		if c.TrimSpace && !quoted {
			f = strings.TrimSpace(f)
		}
		fields = append(fields, f)
		field.Reset()
		quoted = false
	}

	for i := 0; i < len(rec); {
		r, size := utf8.DecodeRuneInString(rec[i:])
		i += size

		if inQuotes {
			if r == p.format.quote {
				if next, n := utf8.DecodeRuneInString(rec[i:]); n > 0 && next == p.format.quote {
					field.WriteRune(r)
					i += n
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteRune(r)
			continue
		}

		switch {
		case r == p.format.delimiter:
			finish()

		case r == p.format.quote && !quoted && (field.Len() == 0 || (c.TrimSpace && strings.TrimSpace(field.String()) == "")):
			field.Reset()
			inQuotes = true
			quoted = true

		case quoted:
			// text after the closing quote of a field
			if c.TrimSpace && unicode.IsSpace(r) {
				continue
			}
			if !c.LazyQuotes {
				return nil, false, errors.Errorf("unexpected %q after quoted field %d", r, len(fields)+1)
			}
			field.WriteRune(r)

		case r == p.format.quote:
			if !c.LazyQuotes {
				return nil, false, errors.Errorf("bare quote in non-quoted field %d", len(fields)+1)
			}
			field.WriteRune(r)

		default:
			field.WriteRune(r)
		}
	}

	if inQuotes {
		return nil, true, nil
	}
	finish()
	return fields, false, nil
}
