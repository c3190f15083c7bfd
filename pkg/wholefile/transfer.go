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

package wholefile

import (
	"encoding/hex"
	"hash"
	"io"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/util/limit"
)

// FileRecord is the value of the single record a whole-file parser yields.
// The content is not read until the caller opens it.
type FileRecord struct {
	Ref      api.FileRef
	Policy   Policy
	Metadata map[string]interface{}

	// OnRead observes every chunk read through a TransferReader.
	OnRead func(n int)
	// Clock overrides the clock of the rate limiter, used in tests.
	Clock limit.Clock
}

func (f *FileRecord) Name() string {
	return f.Ref.Name()
}

func (f *FileRecord) Size() int64 {
	return f.Ref.Size()
}

// Open starts a transfer: the reader applies the rate limit of the policy
// and computes the checksum when one is required.
func (f *FileRecord) Open() (*TransferReader, error) {
	rate, err := f.Policy.ResolveRateLimit()
	if err != nil {
		return nil, err
	}

	t := &TransferReader{
		onRead: f.OnRead,
	}
	if f.Policy.IsChecksumRequired() {
		t.algorithm = f.Policy.Algorithm()
		if t.hash, err = NewHash(t.algorithm); err != nil {
			return nil, api.WrapError(err, api.ErrCodeConfig, "invalid whole file policy")
		}
	}

	var opts []limit.Option
	if f.Clock != nil {
		opts = append(opts, limit.WithClock(f.Clock))
	}
	t.limiter = limit.New(rate, opts...)

	rc, err := f.Ref.Open()
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeSourceOpen, "cannot open %s", f.Ref.Name())
	}
	t.rc = rc
	return t, nil
}

// TransferTo copies the whole content to w in chunks of the suggested buffer size.
func (f *FileRecord) TransferTo(w io.Writer) (TransferResult, error) {
	t, err := f.Open()
	if err != nil {
		return TransferResult{}, err
	}
	defer t.Close()

	buf := make([]byte, f.Policy.SuggestedBufferSize())
	for {
		n, err := t.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return t.Result(), api.WrapError(werr, api.ErrCodeIO, "write %s", f.Ref.Name())
			}
		}
		if err == io.EOF {
			return t.Result(), nil
		}
		if err != nil {
			return t.Result(), api.WrapError(err, api.ErrCodeIO, "read %s", f.Ref.Name())
		}
	}
}

// TransferResult is what the caller reports once a file was moved.
type TransferResult struct {
	Bytes     int64  `json:"bytes"`
	Checksum  string `json:"checksum,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
}

type TransferReader struct {
	rc        io.ReadCloser
	limiter   limit.Limiter
	hash      hash.Hash
	algorithm string
	bytes     int64
	onRead    func(n int)
}

func (t *TransferReader) Read(p []byte) (int, error) {
	n, err := t.rc.Read(p)
	if n > 0 {
		t.limiter.TakeN(n)
		if t.hash != nil {
			t.hash.Write(p[:n])
		}
		t.bytes += int64(n)
		if t.onRead != nil {
			t.onRead(n)
		}
	}
	return n, err
}

// Checksum is the hex digest of everything read so far, "" when no checksum
// is required.
func (t *TransferReader) Checksum() string {
	if t.hash == nil {
		return ""
	}
	return hex.EncodeToString(t.hash.Sum(nil))
}

func (t *TransferReader) Result() TransferResult {
	return TransferResult{
		Bytes:     t.bytes,
		Checksum:  t.Checksum(),
		Algorithm: t.algorithm,
	}
}

func (t *TransferReader) Close() error {
	if err := t.rc.Close(); err != nil {
		return errors.WithMessage(err, "close transfer")
	}
	return nil
}
