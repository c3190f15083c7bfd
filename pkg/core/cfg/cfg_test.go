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
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type testConfig struct {
	Name    string `yaml:"name,omitempty" validate:"required"`
	Workers int    `yaml:"workers,omitempty" default:"2" validate:"gt=0"`
	Mode    string `yaml:"mode,omitempty" default:"fast"`
}

func (c *testConfig) Validate() error {
	if c.Mode != "fast" && c.Mode != "slow" {
		return errors.Errorf("mode %s is not supported", c.Mode)
	}
	return nil
}

func TestUnpackRawDefaultsAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    testConfig
		wantErr bool
	}{
		{
			name:    "defaults",
			content: "name: a",
			want:    testConfig{Name: "a", Workers: 2, Mode: "fast"},
		},
		{
			name:    "override",
			content: "name: a\nworkers: 8\nmode: slow",
			want:    testConfig{Name: "a", Workers: 8, Mode: "slow"},
		},
		{
			name:    "missing required",
			content: "workers: 1",
			wantErr: true,
		},
		{
			name:    "validate hook",
			content: "name: a\nmode: other",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testConfig{}
			err := UnpackRawDefaultsAndValidate([]byte(tt.content), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpackDefaultsAndValidate(t *testing.T) {
	props := NewCommonCfg()
	props.Put("name", "b")
	props.Put("workers", 3)

	got := testConfig{}
	assert.NoError(t, UnpackDefaultsAndValidate(props, &got))
	assert.Equal(t, testConfig{Name: "b", Workers: 3, Mode: "fast"}, got)

	assert.Error(t, UnpackDefaultsAndValidate(nil, &testConfig{}))
}

func TestUnpackDefaultsAndValidateKeepsControlCharacters(t *testing.T) {
	props := NewCommonCfg()
	props.Put("name", "a\tb")

	got := testConfig{}
	assert.NoError(t, UnpackDefaultsAndValidate(props, &got))
	assert.Equal(t, "a\tb", got.Name)
}

func TestUnpackFromFileDefaultsAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yml")
	assert.NoError(t, os.WriteFile(path, []byte("name: c\n"), 0644))

	got := testConfig{}
	assert.NoError(t, UnpackFromFileDefaultsAndValidate(path, &got))
	assert.Equal(t, "c", got.Name)

	err := UnpackFromFileDefaultsAndValidate(filepath.Join(dir, "missing.yml"), &got)
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestPack(t *testing.T) {
	c, err := Pack(&testConfig{Name: "x", Workers: 1, Mode: "slow"})
	assert.NoError(t, err)
	assert.Equal(t, "x", c.Get("name"))
	assert.Equal(t, "slow", c.Get("mode"))
}

func TestCommonCfgGetType(t *testing.T) {
	c := NewCommonCfg()
	assert.Equal(t, "", c.GetType())
	c.Put("type", "delimited")
	assert.Equal(t, "delimited", c.GetType())
}
