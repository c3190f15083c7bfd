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

package cfg

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/util/json"
)

// CommonCfg holds the untyped properties of a pluggable component, unpacked
// later into the component's own config struct.
type CommonCfg map[string]interface{}

type Validator interface {
	Validate() error
}

func NewCommonCfg() CommonCfg {
	return make(map[string]interface{})
}

func (c CommonCfg) Put(key string, val interface{}) {
	c[key] = val
}

func (c CommonCfg) Get(key string) interface{} {
	return c[key]
}

func (c CommonCfg) GetType() string {
	typeName, ok := c["type"]
	if !ok {
		return ""
	}
	s, _ := typeName.(string)
	return s
}

func UnpackFromFileDefaultsAndValidate(path string, config interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warn("read config error. err: %v", err)
		return errors.WithMessagef(err, "read config %s", path)
	}

	return UnpackRawDefaultsAndValidate(content, config)
}

func UnpackRawDefaultsAndValidate(content []byte, config interface{}) error {
	if config == nil {
		return nil
	}
	if err := yaml.Unmarshal(content, config); err != nil {
		return err
	}

	if err := setDefault(config); err != nil {
		return err
	}

	return validate(config)
}

func UnpackRawAndDefaults(content []byte, config interface{}) error {
	if config == nil {
		return nil
	}
	if err := yaml.Unmarshal(content, config); err != nil {
		return err
	}

	return setDefault(config)
}

// UnpackDefaultsAndValidate fills config from properties, applies `default`
// tags and runs both tag validation and the config's own Validate hook.
// Properties travel as json, which is valid yaml and keeps control characters
// such as a tab escaped inside double quotes.
func UnpackDefaultsAndValidate(properties CommonCfg, config interface{}) error {
	if properties == nil {
		properties = NewCommonCfg()
	}

	out, err := json.Marshal(properties)
	if err != nil {
		return errors.WithMessage(err, "marshal properties")
	}

	return UnpackRawDefaultsAndValidate(out, config)
}

func Pack(config interface{}) (CommonCfg, error) {
	if config == nil {
		return nil, nil
	}

	out, err := yaml.Marshal(config)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]interface{})
	if err = yaml.Unmarshal(out, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func setDefault(config interface{}) error {
	return defaults.Set(config)
}

func validate(config interface{}) error {
	if config == nil {
		return nil
	}

	if err := validator.New().Struct(config); err != nil {
		return err
	}

	if cfg, ok := config.(Validator); ok {
		return cfg.Validate()
	}
	return nil
}
