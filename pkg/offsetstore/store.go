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

package offsetstore

import (
	"sync"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/api"
	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/offsetstore/driver"
	"github.com/loggie-io/dataformat/pkg/offsetstore/reg"
)

const TimeFormatPattern = "2006-01-02 15:04:05.999"

type Config struct {
	File string `yaml:"file,omitempty" default:"./data/offsets.db"`
	// offsets not committed for this long are removed by CleanInactive
	CleanInactiveTimeout time.Duration `yaml:"cleanInactiveTimeout,omitempty" default:"504h"`
}

// Store keeps the resume token of every source so a later run continues where
// the previous one committed.
type Store struct {
	config Config
	format string
	db     reg.DbEngine

	closeOnce sync.Once
	now       func() time.Time
}

// Open opens the store for parsers of one format. Tokens of different formats
// are kept apart since they are not interchangeable.
func Open(config Config, format string) (*Store, error) {
	if err := defaults.Set(&config); err != nil {
		return nil, err
	}
	db, err := driver.Init(config.File)
	if err != nil {
		return nil, errors.WithMessage(err, "open offset store")
	}
	return &Store{
		config: config,
		format: format,
		db:     db,
		now:    time.Now,
	}, nil
}

// Get returns the stored token of id, "" when id was never committed.
func (s *Store) Get(id string) (string, error) {
	r, ok, err := s.db.FindBy(id, s.format)
	if err != nil {
		return "", errors.WithMessagef(err, "find offset of %s", id)
	}
	if !ok {
		return "", nil
	}
	return r.Offset, nil
}

// Commit stores the current position of p under id.
func (s *Store) Commit(id string, p api.DataParser) error {
	return s.Put(id, p.Offset().String())
}

func (s *Store) Put(id string, offset string) error {
	r := reg.Registry{
		SourceID:    id,
		Format:      s.format,
		Offset:      offset,
		CollectTime: s.now().Format(TimeFormatPattern),
	}
	if err := s.db.Upsert([]reg.Registry{r}); err != nil {
		return err
	}
	log.Debug("committed offset %s of %s", offset, id)
	return nil
}

func (s *Store) Delete(id string) error {
	return s.db.DeleteBy(id, s.format)
}

// All lists the registries of every format.
func (s *Store) All() ([]reg.Registry, error) {
	return s.db.FindAll()
}

// CleanInactive removes the offsets of every format that were not committed
// within CleanInactiveTimeout and returns how many were removed.
func (s *Store) CleanInactive() (int, error) {
	registries, err := s.db.FindAll()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, r := range registries {
		if r.CollectTime == "" {
			continue
		}
		t, err := time.ParseInLocation(TimeFormatPattern, r.CollectTime, time.Local)
		if err != nil {
			log.Warn("convert text %s to time fail: %v", r.CollectTime, err)
			continue
		}
		if s.now().Sub(t) < s.config.CleanInactiveTimeout {
			continue
		}
		if err := s.db.DeleteBy(r.SourceID, r.Format); err != nil {
			return removed, err
		}
		removed++
		log.Info("delete offset %s because cleanInactiveTimeout(%s) reached", r.Key(), s.config.CleanInactiveTimeout)
	}
	return removed, nil
}

func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}
