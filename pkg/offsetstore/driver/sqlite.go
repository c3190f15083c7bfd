//go:build !driver_badger

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
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/offsetstore/reg"
)

const (
	driver      = "sqlite3"
	createTable = `
	CREATE TABLE IF NOT EXISTS registry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT NOT NULL,
		format TEXT NOT NULL,
		source_offset TEXT NOT NULL,
		collect_time TEXT NULL,
		UNIQUE (source_id, format)
	);`

	queryAll    = `SELECT id,source_id,format,source_offset,collect_time FROM registry`
	queryBy     = `SELECT id,source_id,format,source_offset,collect_time FROM registry WHERE source_id = ? AND format = ?`
	upsertSql   = `INSERT INTO registry (source_id,format,source_offset,collect_time) VALUES (?, ?, ?, ?) ON CONFLICT(source_id, format) DO UPDATE SET source_offset = excluded.source_offset, collect_time = excluded.collect_time`
	deleteBySql = `DELETE FROM registry WHERE source_id = ? AND format = ?`
)

type Engine struct {
	db     *sql.DB
	dbFile string

	mutex sync.Mutex
}

func Init(file string) (reg.DbEngine, error) {
	log.Info("using database engine: sqlite3")
	dbFile, err := createDbFile(file)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dbFile)
	if err != nil {
		return nil, errors.WithMessagef(err, "open db(%s) fail", dbFile)
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, errors.WithMessage(err, "check table registry fail")
	}
	return &Engine{
		db:     db,
		dbFile: dbFile,
	}, nil
}

func createDbFile(file string) (string, error) {
	dbFile, err := filepath.Abs(file)
	if err != nil {
		return "", errors.WithMessagef(err, "get db abs file(%s) fail", file)
	}
	log.Info("db file: %s", dbFile)
	if err := os.MkdirAll(filepath.Dir(dbFile), os.ModePerm); err != nil {
		return "", errors.WithMessagef(err, "create dir of %s fail", dbFile)
	}
	return dbFile, nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("db-handler(file:%s)", e.dbFile)
}

func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) Upsert(registries []reg.Registry) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.txWrapper(upsertSql, func(stmt *sql.Stmt) error {
		for _, r := range registries {
			if _, err := stmt.Exec(r.SourceID, r.Format, r.Offset, r.CollectTime); err != nil {
				return errors.WithMessagef(err, "%s upsert %s", e.String(), r.Key())
			}
		}
		return nil
	})
}

func (e *Engine) DeleteBy(sourceID string, format string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.txWrapper(deleteBySql, func(stmt *sql.Stmt) error {
		_, err := stmt.Exec(sourceID, format)
		return err
	})
}

func (e *Engine) FindAll() ([]reg.Registry, error) {
	return e.findBySql(queryAll)
}

func (e *Engine) FindBy(sourceID string, format string) (reg.Registry, bool, error) {
	rs, err := e.findBySql(queryBy, sourceID, format)
	if err != nil || len(rs) == 0 {
		return reg.Registry{}, false, err
	}
	return rs[0], true, nil
}

func (e *Engine) txWrapper(sqlString string, f func(stmt *sql.Stmt) error) error {
	tx, err := e.db.Begin()
	if err != nil {
		return errors.WithMessagef(err, "%s begin tx fail", e.String())
	}
	stmt, err := tx.Prepare(sqlString)
	if err != nil {
		_ = tx.Rollback()
		return errors.WithMessagef(err, "%s prepare sql fail", e.String())
	}
	defer stmt.Close()

	if err := f(stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WithMessagef(err, "%s tx commit fail", e.String())
	}
	return nil
}

func (e *Engine) findBySql(querySql string, args ...interface{}) ([]reg.Registry, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	rows, err := e.db.Query(querySql, args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s query registry fail", e.String())
	}
	defer rows.Close()

	registries := make([]reg.Registry, 0)
	for rows.Next() {
		var (
			r           reg.Registry
			collectTime sql.NullString
		)
		if err := rows.Scan(&r.Id, &r.SourceID, &r.Format, &r.Offset, &collectTime); err != nil {
			return nil, errors.WithMessage(err, "scan registry fail")
		}
		r.CollectTime = collectTime.String
		registries = append(registries, r)
	}
	return registries, rows.Err()
}
