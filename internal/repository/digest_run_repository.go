// internal/repository/digest_run_repository.go
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

const DefaultListLimit = 50

// DigestRunRepository journals digest jobs so operators can see what was sent.
type DigestRunRepository interface {
	Save(ctx context.Context, run domain.DigestRun) error
	List(ctx context.Context, filter domain.DigestRunFilter) ([]domain.DigestRun, error)
}

type memoryDigestRunRepository struct {
	mu   sync.RWMutex
	runs []domain.DigestRun
}

// NewMemoryDigestRunRepository keeps the journal in process when no database
// is configured.
func NewMemoryDigestRunRepository() DigestRunRepository {
	return &memoryDigestRunRepository{}
}

func (r *memoryDigestRunRepository) Save(_ context.Context, run domain.DigestRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *memoryDigestRunRepository) List(_ context.Context, filter domain.DigestRunFilter) ([]domain.DigestRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]domain.DigestRun, 0, len(r.runs))
	for _, run := range r.runs {
		if filter.Marketplace != "" && run.Marketplace != filter.Marketplace {
			continue
		}
		if filter.Kind != "" && run.Kind != filter.Kind {
			continue
		}
		out = append(out, run)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
