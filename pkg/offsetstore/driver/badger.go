//go:build driver_badger

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

package driver

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/offsetstore/reg"
	"github.com/loggie-io/dataformat/pkg/util/json"
)

type Engine struct {
	db *badger.DB
}

func Init(file string) (reg.DbEngine, error) {
	log.Info("using database engine: badger")
	db, err := badger.Open(badger.DefaultOptions(file).WithLogger(nil))
	if err != nil {
		return nil, errors.WithMessagef(err, "open db(%s) fail", file)
	}
	return &Engine{
		db: db,
	}, nil
}

func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) Upsert(registries []reg.Registry) error {
	return e.db.Update(func(txn *badger.Txn) error {
		for _, registry := range registries {
			key := registry.Key()
			value := registry.Value()
			if err := txn.Set(key, value); err != nil {
				return errors.WithMessagef(err, "upsert registry %s fail", key)
			}
			log.Debug("upserted registry %s: %s", key, value)
		}
		return nil
	})
}

func (e *Engine) DeleteBy(sourceID string, format string) error {
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(reg.GenKey(sourceID, format))
	})
}

func (e *Engine) FindAll() ([]reg.Registry, error) {
	list := make([]reg.Registry, 0)
	err := e.db.View(func(txn *badger.Txn) error {
		iterator := txn.NewIterator(badger.DefaultIteratorOptions)
		defer iterator.Close()

		for iterator.Rewind(); iterator.Valid(); iterator.Next() {
			item := iterator.Item()
			err := item.Value(func(val []byte) error {
				registry := reg.Registry{}
				if err := json.Unmarshal(val, &registry); err != nil {
					return errors.WithMessagef(err, "fail to decode registry %s", item.Key())
				}
				list = append(list, registry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return list, err
}

func (e *Engine) FindBy(sourceID string, format string) (reg.Registry, bool, error) {
	registry := reg.Registry{}
	key := reg.GenKey(sourceID, format)
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		valueCopy, err := item.ValueCopy(nil)
		if err != nil {
			return errors.WithMessagef(err, "fail to get registry %s bytes", key)
		}
		return json.Unmarshal(valueCopy, &registry)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return reg.Registry{}, false, nil
	}
	if err != nil {
		return reg.Registry{}, false, err
	}
	return registry, true, nil
}
