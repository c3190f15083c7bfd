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


// Package std adapts encoding/json to the engine set of the json format. It
// is the slowest engine and the reference the others are checked against.
package std

import (
	"bytes"
	"encoding/json"
)

type Std struct{}

func (*Std) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (*Std) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// MarshalIndent indents the compact form, so both share one encoding path.
func (s *Std) MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	compact, err := s.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (s *Std) MarshalToString(v interface{}) (string, error) {
	data, err := s.Marshal(v)
	return string(data), err
}
