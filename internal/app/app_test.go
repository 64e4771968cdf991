package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/sellerpulse/internal/config"
	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func TestNewWithoutBackends(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Backend: "memory"}}

	a := New(context.Background(), cfg, Options{})
	defer a.Close()

	require.NotNil(t, a.Reports)
	require.NotNil(t, a.Digests)
	assert.Nil(t, a.Archive)

	res, err := a.Digests.Run(context.Background(), domain.MarketplaceOzon, domain.DigestDaily)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSkipped, res.Run.Status)
}

func TestNewArchiverSkipsInvalidS3(t *testing.T) {
	a := &App{}
	archiver := a.newArchiver(context.Background(), config.ArchiveConfig{S3: config.S3Config{Enabled: true}})
	assert.Nil(t, archiver)
}
