// Package sqlitefold opens SQLite databases with a Unicode-aware lower-case
// function. SQLite's built-in LOWER only folds ASCII.
package sqlitefold

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverName is the database/sql driver registered by this package.
const DriverName = "sqlite3_fold"

// LowerFunc is the SQL name of the Unicode lower-case function.
const LowerFunc = "fold_lower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(LowerFunc, strings.ToLower, true)
		},
	})
}

// Open returns a gorm dialector for dsn on the folding driver.
func Open(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dsn})
}
