package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

func TestParseMarketplaces(t *testing.T) {
	all, err := parseMarketplaces("all")
	require.NoError(t, err)
	assert.Equal(t, domain.Marketplaces(), all)

	empty, err := parseMarketplaces("")
	require.NoError(t, err)
	assert.Equal(t, domain.Marketplaces(), empty)

	mps, err := parseMarketplaces("wildberries, ozon,wb")
	require.NoError(t, err)
	assert.Equal(t, []domain.Marketplace{domain.MarketplaceWildberries, domain.MarketplaceOzon}, mps)

	_, err = parseMarketplaces("ozon,amazon")
	assert.ErrorContains(t, err, `unknown marketplace "amazon"`)
}

func TestCommandsRegistered(t *testing.T) {
	app := newApp()
	for _, name := range []string{"daily", "weekly", "report", "stock", "forecast", "export"} {
		cmd := app.Command(name)
		require.NotNil(t, cmd, name)
		assert.True(t, hasFlag(cmd, "refresh"), name)
		assert.True(t, hasFlag(cmd, "marketplace"), name)
	}
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}
