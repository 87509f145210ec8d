package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/swapdiary/internal/dbx"
	"github.com/dmitrijs2005/swapdiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/swapdiary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/swapdiary/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
}
