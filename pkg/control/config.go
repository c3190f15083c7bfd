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

package control

import (
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/dataformat"
	"github.com/loggie-io/dataformat/pkg/offsetstore"
)

var ErrNoPaths = errors.New("no paths configured")

type Config struct {
	Paths    []string `yaml:"paths,omitempty"`
	Excludes []string `yaml:"excludes,omitempty"`
	// Workers is the number of files parsed at the same time.
	Workers   int    `yaml:"workers,omitempty" default:"4" validate:"gt=0"`
	BatchSize int    `yaml:"batchSize,omitempty" default:"100" validate:"gt=0"`
	OutputDir string `yaml:"outputDir,omitempty" default:"./output"`

	Store      offsetstore.Config `yaml:"store,omitempty"`
	DataFormat dataformat.Config  `yaml:"dataformat,omitempty"`
	Http       HttpConfig         `yaml:"http,omitempty"`
}

type HttpConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty" default:"0.0.0.0"`
	Port    int    `yaml:"port,omitempty" default:"9196"`
}

func (c *Config) Validate() error {
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}
	return c.DataFormat.Validate()
}

func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	if err := cfg.UnpackFromFileDefaultsAndValidate(path, c); err != nil {
		return nil, err
	}
	return c, nil
}
