package dataset

import (
	"context"
	"os"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/db"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/logger"
)

// Open loads a dataset from a file or a SQLite database, chosen by extension.
func Open(ctx context.Context, path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format != FormatSQLite {
		return LoadFile(path)
	}

	conn, err := db.OpenReadOnly(path, logger.ComponentLogger("db"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	ds, err := LoadSQL(ctx, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s", path)
	}
	return ds, nil
}

// Save writes ds to path, creating a migrated database for SQLite extensions.
// Facts already present in a database are rejected by its unique variable column.
func Save(ctx context.Context, ds *Dataset, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	if format != FormatSQLite {
		data, err := Encode(ds, format)
		if err != nil {
			return err
		}
		return errors.Wrapf(os.WriteFile(path, data, am.DefaultFilePermissions), "write %s", path)
	}

	conn, err := db.OpenWithMigrations(path, logger.ComponentLogger("db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	return WriteSQL(ctx, conn, ds)
}
