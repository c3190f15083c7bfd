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

package parser

import (
	"sort"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/cfg"
	"github.com/loggie-io/dataformat/pkg/core/log"
)

// Format is one data format backend. A Format holds the unpacked format
// configuration and creates a DataParser per source.
type Format interface {
	Type() string
	// Config returns the pointer the format properties are unpacked into.
	Config() interface{}
	// Init runs once after Config was unpacked and validated.
	Init() error
	NewParser(in *Input) (api.DataParser, error)
}

type Factory func() Format

var center = make(map[string]Factory)

func Register(name string, factory Factory) {
	_, ok := center[name]
	if ok {
		log.Fatal("data format %s is duplicated", name)
	}

	center[name] = factory
}

func Get(name string) (Format, bool) {
	f, ok := center[name]
	if !ok {
		return nil, ok
	}
	return f(), ok
}

// Types lists the registered format names.
func Types() []string {
	types := make([]string, 0, len(center))
	for name := range center {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// New looks up format typ and configures it with properties.
func New(typ string, properties cfg.CommonCfg) (Format, error) {
	f, ok := Get(typ)
	if !ok {
		return nil, api.NewError(api.ErrCodeConfig, "data format %s is not supported, supported formats are %v", typ, Types())
	}
	if err := cfg.UnpackDefaultsAndValidate(properties, f.Config()); err != nil {
		return nil, api.WrapError(err, api.ErrCodeConfig, "invalid %s format properties", typ)
	}
	if err := f.Init(); err != nil {
		return nil, api.WrapError(err, api.ErrCodeConfig, "init %s format", typ)
	}
	return f, nil
}
