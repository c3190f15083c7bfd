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
	"os"
	"strings"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/util/size"
)

const (
	DefaultBufferSize int64 = 8192
	// Unlimited is the rate limit reported when no limit applies.
	Unlimited float64 = -1
)

// Policy tells callers how to move a whole file: which chunk size to use, how
// fast to go and whether a checksum has to be reported with it. It is fixed
// once the service is configured.
type Policy struct {
	Enabled           bool
	BufferSize        int64
	RateLimit         string
	ChecksumRequired  bool
	ChecksumAlgorithm string
}

// Disabled is the policy of services parsing records.
func Disabled() Policy {
	return Policy{BufferSize: DefaultBufferSize}
}

func (p Policy) SuggestedBufferSize() int64 {
	if !p.Enabled || p.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return p.BufferSize
}

// ResolveRateLimit returns the limit in bytes per second, Unlimited when
// there is none. Environment references like ${TRANSFER_LIMIT} are expanded
// on every call, so the limit follows the environment of the process.
func (p Policy) ResolveRateLimit() (float64, error) {
	if !p.Enabled {
		return Unlimited, nil
	}
	s := strings.TrimSpace(os.ExpandEnv(p.RateLimit))
	if s == "" || s == "-1" {
		return Unlimited, nil
	}
	n, err := size.Parse(s)
	if err != nil {
		return 0, api.WrapError(err, api.ErrCodeRateLimit, "cannot resolve rate limit '%s'", p.RateLimit)
	}
	if n <= 0 {
		return 0, api.NewError(api.ErrCodeRateLimit, "rate limit '%s' must be positive or -1", p.RateLimit)
	}
	return float64(n), nil
}

func (p Policy) IsChecksumRequired() bool {
	return p.Enabled && p.ChecksumRequired
}

func (p Policy) Algorithm() string {
	if p.ChecksumAlgorithm == "" {
		return MD5
	}
	return p.ChecksumAlgorithm
}
