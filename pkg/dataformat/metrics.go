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

package dataformat

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace      = "dataformat"
	formatKey      = "format"
	codeKey        = "code"
	recoverableKey = "recoverable"
)

var (
	parsersOpen = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "parsers_open",
		Help:      "parsers created and not closed yet",
	}, []string{formatKey})

	recordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "records returned by parsers",
	}, []string{formatKey})

	parseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parse_errors_total",
		Help:      "errors returned by parsers",
	}, []string{formatKey, codeKey, recoverableKey})

	poolWaitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_waits_total",
		Help:      "string builder checkouts that had to wait for a free buffer",
	})

	wholeFileBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wholefile_bytes_total",
		Help:      "bytes read through whole-file transfers",
	})

	registerOnce sync.Once
	registerErr  error
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{parsersOpen, recordsTotal, parseErrorsTotal, poolWaitsTotal, wholeFileBytesTotal}
}

// RegisterMetrics exposes the service metrics on reg. Only the first call
// registers; later calls report the outcome of the first.
func RegisterMetrics(reg prometheus.Registerer) error {
	registerOnce.Do(func() {
		for _, c := range collectors() {
			if err := reg.Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if errors.As(err, &are) {
					continue
				}
				registerErr = err
				return
			}
		}
	})
	return registerErr
}
