// Package connect opens the backend configured for a database.
package connect

import (
	"context"

	"github.com/alexanderjulianmartinez/datasnap/internal/config"
	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
	"github.com/alexanderjulianmartinez/datasnap/internal/source/mssql"
	"github.com/alexanderjulianmartinez/datasnap/internal/source/mysql"
	"github.com/alexanderjulianmartinez/datasnap/internal/source/sqlite"
)

// Open connects to db. Connection failures are reported as BackendUnavailableError.
func Open(ctx context.Context, db config.DatabaseConfig) (source.Backend, error) {
	var (
		b   source.Backend
		err error
	)
	switch db.DBMS {
	case config.DBMSMySQL:
		b, err = mysql.NewInspector(ctx, db.Name, db.DSN, db.Schema)
	case config.DBMSSQLite:
		b, err = sqlite.NewInspector(ctx, db.Name, db.DSN)
	case config.DBMSMSSQL:
		b, err = mssql.NewInspector(ctx, db.Name, db.DSN, db.Schema)
	default:
		return nil, domain.ErrBackendUnavailable(nil, "database %s: unsupported dbms %q", db.Name, db.DBMS)
	}
	if err != nil {
		return nil, domain.ErrBackendUnavailable(err, "database %s", db.Name)
	}
	return b, nil
}
