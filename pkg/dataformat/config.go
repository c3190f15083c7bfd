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
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/parser"
	"github.com/loggie-io/dataformat/pkg/parser/text"
	"github.com/loggie-io/dataformat/pkg/util/charset"
	"github.com/loggie-io/dataformat/pkg/util/decompress"
	"github.com/loggie-io/dataformat/pkg/util/size"
)

type Config struct {
	Charset               string        `yaml:"charset,omitempty" default:"utf-8"`
	StringBuilderPoolSize int           `yaml:"stringBuilderPoolSize,omitempty" default:"1"`
	ReadBufferSize        size.Size     `yaml:"readBufferSize,omitempty"`
	Compression           string        `yaml:"compression,omitempty" default:"none"`
	Format                cfg.CommonCfg `yaml:"format,omitempty"`
}

func (c *Config) SetDefaults() {
	if c.ReadBufferSize.Bytes <= 0 {
		c.ReadBufferSize.Bytes = parser.DefaultReadBufferSize
	}
	if c.Format == nil {
		c.Format = cfg.NewCommonCfg()
	}
	if c.Format.GetType() == "" {
		c.Format.Put("type", text.Type)
	}
}

func (c *Config) Validate() error {
	if c.StringBuilderPoolSize <= 0 {
		return errors.Errorf("stringBuilderPoolSize must be positive, got %d", c.StringBuilderPoolSize)
	}
	if _, ok := charset.Canonical(c.Charset); !ok {
		return errors.Errorf("charset %s is not supported", c.Charset)
	}
	if !decompress.GetOrCreateDecompressorFactory().Supported(c.Compression) {
		return errors.Errorf("compression %s is not supported", c.Compression)
	}
	return nil
}

// NewConfig returns a configuration with every default applied: utf-8 text
// lines, one pooled buffer and no compression.
func NewConfig() *Config {
	c := &Config{}
	_ = cfg.UnpackRawAndDefaults([]byte("{}"), c)
	return c
}

// LoadConfig reads a yaml service configuration.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	if err := cfg.UnpackFromFileDefaultsAndValidate(path, c); err != nil {
		return nil, err
	}
	return c, nil
}
