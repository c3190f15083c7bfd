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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	HeaderNone   = "none"
	HeaderWith   = "with_header"
	HeaderIgnore = "ignore_header"
)

type Config struct {
	Delimiter       string `yaml:"delimiter,omitempty" default:","`
	Quote           string `yaml:"quote,omitempty" default:"\""`
	Comment         string `yaml:"comment,omitempty"`
	Header          string `yaml:"header,omitempty" default:"none" validate:"oneof=none with_header ignore_header"`
	MaxRecordLength int    `yaml:"maxRecordLength,omitempty" default:"4096" validate:"gte=1"`
	TrimSpace       bool   `yaml:"trimSpace,omitempty"`
	LazyQuotes      bool   `yaml:"lazyQuotes,omitempty"`
}

// unescape turns the written form of a separator, such as `\t`, `\u0001` or
// the word "tab", into the character itself.
func unescape(s string) string {
	if strings.EqualFold(s, "tab") {
		return "\t"
	}
	if len(s) < 2 || s[0] != '\\' {
		return s
	}
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}

func singleRune(name string, s string, optional bool) (rune, error) {
	if s == "" && optional {
		return 0, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Errorf("%s must be a single character, got '%s'", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\n' || r == '\r' || r == utf8.RuneError {
		return 0, errors.Errorf("%s '%s' is not allowed", name, s)
	}
	return r, nil
}

func (c *Config) Validate() error {
	c.Delimiter = unescape(c.Delimiter)
	c.Quote = unescape(c.Quote)
	c.Comment = unescape(c.Comment)

	delimiter, err := singleRune("delimiter", c.Delimiter, false)
	if err != nil {
		return err
	}
	quote, err := singleRune("quote", c.Quote, false)
	if err != nil {
		return err
	}
	comment, err := singleRune("comment", c.Comment, true)
	if err != nil {
		return err
	}
	if delimiter == quote || delimiter == comment || (comment != 0 && quote == comment) {
		return errors.New("delimiter, quote and comment must differ")
	}
	return nil
}
