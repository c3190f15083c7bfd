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

package decompress

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestResolve(t *testing.T) {
	f := GetOrCreateDecompressorFactory()
	tests := []struct {
		compression string
		id          string
		want        string
	}{
		{"", "a.gz", None},
		{None, "a.gz", None},
		{Auto, "/var/log/a.log.gz", GZ},
		{Auto, "a.BZ2", BZ2},
		{Auto, "a.xz", XZ},
		{Auto, "a.log", None},
		{Auto, "a.csv.sz", Snappy},
		{GZ, "a.log", GZ},
	}
	for _, tt := range tests {
		t.Run(tt.compression+"/"+tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Resolve(tt.compression, tt.id))
		})
	}
	assert.True(t, f.Supported(Auto))
	assert.False(t, f.Supported("lz4"))
}

func TestGZ(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte("line1\nline2\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := GetOrCreateDecompressorFactory().MakeDecompressor(GZ, &buf)
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(out))
}

func TestXZ(t *testing.T) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte("compressed with xz"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := GetOrCreateDecompressorFactory().MakeDecompressor(XZ, &buf)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "compressed with xz", string(out))
}

func TestSnappy(t *testing.T) {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write([]byte("framed snappy"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := GetOrCreateDecompressorFactory().MakeDecompressor(Snappy, &buf)
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, "framed snappy", string(out))
}

func TestUnsupported(t *testing.T) {
	_, err := GetOrCreateDecompressorFactory().MakeDecompressor("zip", bytes.NewReader(nil))
	assert.Error(t, err)
}
