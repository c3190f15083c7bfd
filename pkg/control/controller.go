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
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/dataformat"
	"github.com/loggie-io/dataformat/pkg/offsetstore"
	"github.com/loggie-io/dataformat/pkg/util/file"
	"github.com/loggie-io/dataformat/pkg/util/json"
	"github.com/loggie-io/dataformat/pkg/wholefile"
)

var LineEnding = []byte("\n")

// Summary counts what one Run did.
type Summary struct {
	Files   int64 `json:"files"`
	Records int64 `json:"records"`
	Skipped int64 `json:"skipped"`
	Failed  int64 `json:"failed"`
}

type summary struct {
	files   atomic.Int64
	records atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

func (s *summary) get() Summary {
	return Summary{
		Files:   s.files.Load(),
		Records: s.records.Load(),
		Skipped: s.skipped.Load(),
		Failed:  s.failed.Load(),
	}
}

// Controller parses every configured file on a worker pool and commits the
// offset of each file to the store so that a later Run resumes.
type Controller struct {
	config  *Config
	service *dataformat.Service
	store   *offsetstore.Store
	workers *ants.Pool

	outMu sync.Mutex
	out   io.Writer
}

// NewController records are written to out as json lines.
func NewController(config *Config, out io.Writer) (*Controller, error) {
	svc, err := dataformat.New(&config.DataFormat)
	if err != nil {
		return nil, err
	}
	// every worker holds a buffer while it parses
	if svc.StringBuilderPoolSize() < config.Workers {
		if err := svc.SetStringBuilderPoolSize(config.Workers); err != nil {
			return nil, err
		}
	}
	store, err := offsetstore.Open(config.Store, svc.Format())
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(config.Workers, ants.WithPreAlloc(true))
	if err != nil {
		_ = store.Close()
		return nil, errors.WithMessage(err, "create worker pool")
	}
	return &Controller{
		config:  config,
		service: svc,
		store:   store,
		workers: pool,
		out:     out,
	}, nil
}

func (c *Controller) Service() *dataformat.Service {
	return c.service
}

func (c *Controller) Store() *offsetstore.Store {
	return c.store
}

// Run returns after every matched file was parsed to its end, failed, or ctx
// was cancelled. Files that failed are logged and counted, they do not stop
// the others.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	s := &summary{}
	if _, err := c.store.CleanInactive(); err != nil {
		log.Warn("clean inactive offsets fail: %v", err)
	}
	paths, err := file.Collect(c.config.Paths, c.config.Excludes)
	if err != nil {
		return s.get(), err
	}
	log.Info("parsing %d files with format %s", len(paths), c.service.Format())

	var wg sync.WaitGroup
	for _, path := range paths {
		path := path
		wg.Add(1)
		err := c.workers.Submit(func() {
			defer wg.Done()
			s.files.Inc()
			if err := c.runFile(ctx, path, s); err != nil {
				s.failed.Inc()
				log.Error("parse %s failed: %v", path, err)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return s.get(), errors.WithMessagef(err, "submit %s", path)
		}
	}
	wg.Wait()

	result := s.get()
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	log.Info("parsed %d files: %d records, %d skipped, %d failed", result.Files, result.Records, result.Skipped, result.Failed)
	return result, nil
}

func (c *Controller) runFile(ctx context.Context, path string, s *summary) error {
	offset, err := c.store.Get(path)
	if err != nil {
		return err
	}
	p, err := dataformat.ParserForFile(c.service, path, offset)
	if err != nil {
		return err
	}
	defer p.Close()

	// a cancelled run abandons the pending read
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = p.Close()
		case <-stop:
		}
	}()

	if c.service.IsWholeFileFormat() {
		return c.transfer(ctx, path, p)
	}

	pending := 0
	for {
		rec, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if api.IsRecoverable(err) {
				s.skipped.Inc()
				continue
			}
			return err
		}

		if err := c.write(rec); err != nil {
			return err
		}
		s.records.Inc()
		pending++
		if pending >= c.config.BatchSize {
			if err := c.store.Commit(path, p); err != nil {
				return err
			}
			pending = 0
		}
	}
	return c.store.Commit(path, p)
}

func (c *Controller) transfer(ctx context.Context, path string, p api.DataParser) error {
	rec, err := p.Parse()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	fr, ok := rec.Value().(*wholefile.FileRecord)
	if !ok {
		return errors.Errorf("unexpected whole file record %T", rec.Value())
	}

	if err := file.CreateDirIfNotExist(c.config.OutputDir); err != nil {
		return err
	}
	target := filepath.Join(c.config.OutputDir, filepath.Base(path))
	f, err := os.Create(target)
	if err != nil {
		return errors.WithMessagef(err, "create %s", target)
	}
	result, err := fr.TransferTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.WithMessagef(err, "transfer %s", path)
	}

	out, _ := json.Marshal(result)
	log.Info("transferred %s to %s: %s", path, target, out)
	return c.store.Commit(path, p)
}

type line struct {
	Header map[string]interface{} `json:"header"`
	Value  interface{}            `json:"value"`
}

func (c *Controller) write(rec api.Record) error {
	out, err := json.Marshal(&line{
		Header: rec.Header(),
		Value:  rec.Value(),
	})
	if err != nil {
		return errors.WithMessage(err, "encode record")
	}

	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := c.out.Write(out); err != nil {
		return err
	}
	_, err = c.out.Write(LineEnding)
	return err
}

func (c *Controller) Close() error {
	c.workers.Release()
	return c.store.Close()
}
