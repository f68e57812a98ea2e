package source

import (
	"context"

	"smarttable/internal/db"
	"smarttable/internal/model"
)

// SQLite returns a provider reading every row of table from the database at
// path. The database is opened for the duration of each call.
func SQLite(path, table string) model.Provider {
	return func(ctx context.Context) ([]model.Record, error) {
		database, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		defer database.Close()

		return db.LoadRecords(ctx, database, table)
	}
}
