package repository

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type DB struct {
	*sqlx.DB
}

func NewDB(driverName, dataSourceName string) *DB {
	db := sqlx.MustConnect(driverName, dataSourceName)

	return &DB{DB: db}
}

func (db *DB) Base() *sql.DB {
	return db.DB.DB
}

// Selectx performs a select query using a squirrel SelectBuilder as an argument.
//
// This is a convenience wrapper. Any errors from squirrel are returned as is.
func (db *DB) Selectx(dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	return db.Select(dest, query, args...)
}

// Getx performs a get query using a squirrel SelectBuilder as an argument.
func (db *DB) Getx(dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	return db.Get(dest, query, args...)
}
