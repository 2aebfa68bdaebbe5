package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/salaries/internal/dbx"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/salaries"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, which is either the
// pool or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Salaries(db dbx.DBTX) salaries.Repository
}
