package repositories

import (
	"context"

	"github.com/tokiwa-akira/gkentei/internal/models"
)

// ProblemFilters narrows list queries. Zero values mean "no constraint".
type ProblemFilters struct {
	Difficulty *int     `json:"difficulty"`
	Tags       []string `json:"tags"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
}

// ProblemRepository is the read-mostly question store. Implementations must
// keep identifiers stable: once an id has been returned by any read, later
// reads of that id return the same problem with the same choice set.
type ProblemRepository interface {
	// Read operations
	GetByID(ctx context.Context, id uint) (*models.Problem, error)
	List(ctx context.Context, filters ProblemFilters) ([]*models.Problem, int64, error)
	ListAll(ctx context.Context) ([]*models.Problem, error)
	GetByTags(ctx context.Context, tags []string) ([]*models.Problem, error)
	GetByDifficulty(ctx context.Context, min, max int) ([]*models.Problem, error)
	Count(ctx context.Context) (int64, error)

	// Ingestion (used by the importer; the engine itself never writes)
	CreateBatch(ctx context.Context, problems []*models.Problem) error
}
