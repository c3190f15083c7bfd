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

package offsets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loggie-io/dataformat/pkg/offsetstore"
)

func TestRunOffsets(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "offsets.db")
	configFile := filepath.Join(dir, "dataparse.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(`
paths:
  - %s/*.log
store:
  file: %s
`, dir, db)), 0644))

	store, err := offsetstore.Open(offsetstore.Config{File: db}, "text")
	require.NoError(t, err)
	require.NoError(t, store.Put("/data/a.log", "12"))
	require.NoError(t, store.Put("/data/b.log", "3"))
	require.NoError(t, store.Close())

	var out bytes.Buffer
	assert.NoError(t, RunOffsets([]string{"-config", configFile}, &out))
	assert.Contains(t, out.String(), "/data/a.log")
	assert.Contains(t, out.String(), "/data/b.log")

	assert.NoError(t, RunOffsets([]string{"-config", configFile, "-reset", "/data/a.log"}, &bytes.Buffer{}))

	out.Reset()
	assert.NoError(t, RunOffsets([]string{"-config", configFile}, &out))
	assert.NotContains(t, out.String(), "/data/a.log")
	assert.Contains(t, out.String(), "/data/b.log")
}
