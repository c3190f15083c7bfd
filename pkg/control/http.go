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

package control

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/dataformat"
)

const (
	HandleCurrentOffsets = "/api/v1/controller/offsets"
	HandleMetrics        = "/metrics"
)

// Handler serves the committed offsets and the parser metrics.
func (c *Controller) Handler() (http.Handler, error) {
	if err := dataformat.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.HandleFunc(HandleCurrentOffsets, c.currentOffsetsHandler)
	mux.Handle(HandleMetrics, promhttp.Handler())
	return mux, nil
}

// ServeHttp blocks while the http endpoint is served.
func (c *Controller) ServeHttp() error {
	h, err := c.Handler()
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", c.config.Http.Host, c.config.Http.Port)
	log.Info("http listening on %s", addr)
	return http.ListenAndServe(addr, h)
}

func (c *Controller) currentOffsetsHandler(writer http.ResponseWriter, request *http.Request) {
	registries, err := c.store.All()
	if err == nil {
		var data []byte
		data, err = yaml.Marshal(registries)
		if err == nil {
			writer.WriteHeader(http.StatusOK)
			writer.Write(data)
			return
		}
	}

	log.Warn("list offsets err: %v", err)
	writer.WriteHeader(http.StatusInternalServerError)
	writer.Write([]byte(err.Error()))
}
