package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantail/collectroom/internal/database/postgres"
	"github.com/vantail/collectroom/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Collection repository.Collection
	Transfer   *postgres.TransferRepository
	FreePull   repository.FreePull
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Collection: postgres.NewCollectionRepository(dbPool),
		Transfer:   postgres.NewTransferRepository(dbPool),
		FreePull:   postgres.NewFreePullRepository(dbPool),
	}
}
