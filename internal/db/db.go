package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// FoldFunc is the SQL name of a Unicode-aware lower(). The built-in lower
// folds ASCII only, so queries that compare against Go-lowercased text use
// this instead.
const FoldFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(FoldFunc, 1, foldLower); err != nil {
		panic(fmt.Sprintf("registering %s: %v", FoldFunc, err))
	}
}

func foldLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// pragmas are applied to every pooled connection through the DSN, so
// foreign keys stay enforced no matter which connection serves a query.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// DSN returns the driver data source name for a database file.
func DSN(path string) string {
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	params = append(params, "_time_format=sqlite")
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Open opens a SQLite database connection and verifies it is reachable.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
