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

package record

import (
	"fmt"
	"strings"

	"github.com/loggie-io/dataformat/pkg/core/api"
)

type DefaultRecord struct {
	H map[string]interface{} `json:"header"`
	B []byte                 `json:"body"`
	V interface{}            `json:"value"`
}

var _ api.Record = (*DefaultRecord)(nil)

// New builds a record positioned at start of the source id.
func New(id string, start api.Offset, body []byte, value interface{}) *DefaultRecord {
	return &DefaultRecord{
		H: map[string]interface{}{
			api.HeaderSourceID: id,
			api.HeaderOffset:   start.String(),
		},
		B: body,
		V: value,
	}
}

func (r *DefaultRecord) Header() map[string]interface{} {
	if r.H == nil {
		r.H = make(map[string]interface{})
	}
	return r.H
}

func (r *DefaultRecord) Body() []byte {
	return r.B
}

func (r *DefaultRecord) Value() interface{} {
	return r.V
}

func (r *DefaultRecord) String() string {
	var sb strings.Builder
	sb.WriteString(`header:{`)
	for k, v := range r.H {
		sb.WriteString(k)
		sb.WriteString(" : ")
		sb.WriteString(fmt.Sprintf("%#v", v))
		sb.WriteString(", ")
	}
	sb.WriteString(`}, value:`)
	sb.WriteString(fmt.Sprintf("%#v", r.V))
	return sb.String()
}
