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

package reg

import (
	"bytes"

	"github.com/loggie-io/dataformat/pkg/util/json"
)

// Registry is the last committed offset of one source parsed with one format.
type Registry struct {
	Id          int    `json:"id"`
	SourceID    string `json:"sourceId"`
	Format      string `json:"format"`
	Offset      string `json:"offset"`
	CollectTime string `json:"collectTime"`
}

type RegistryList []Registry

func (r *Registry) Key() []byte {
	return GenKey(r.SourceID, r.Format)
}

func GenKey(sourceID, format string) []byte {
	var bb bytes.Buffer
	bb.WriteString(format)
	bb.WriteString("/")
	bb.WriteString(sourceID)
	return bb.Bytes()
}

func (r *Registry) Value() []byte {
	marshal, _ := json.Marshal(r)
	return marshal
}

type DbEngine interface {
	FindAll() ([]Registry, error)
	// FindBy returns false when nothing was stored for the source yet.
	FindBy(sourceID string, format string) (Registry, bool, error)
	Upsert(registries []Registry) error
	DeleteBy(sourceID string, format string) error
	Close() error
}
