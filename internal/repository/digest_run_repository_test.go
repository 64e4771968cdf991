package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func TestMemoryDigestRunRepository(t *testing.T) {
	repo := NewMemoryDigestRunRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, domain.DigestRun{ID: "1", Marketplace: domain.MarketplaceOzon, Kind: domain.DigestDaily, CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, domain.DigestRun{ID: "2", Marketplace: domain.MarketplaceWildberries, Kind: domain.DigestDaily, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, domain.DigestRun{ID: "3", Marketplace: domain.MarketplaceOzon, Kind: domain.DigestWeekly, CreatedAt: base.Add(2 * time.Hour)}))

	all, err := repo.List(ctx, domain.DigestRunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)
	assert.Equal(t, "1", all[2].ID)

	ozon, err := repo.List(ctx, domain.DigestRunFilter{Marketplace: domain.MarketplaceOzon})
	require.NoError(t, err)
	assert.Len(t, ozon, 2)

	daily, err := repo.List(ctx, domain.DigestRunFilter{Kind: domain.DigestDaily, Limit: 1})
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "2", daily[0].ID)
}
