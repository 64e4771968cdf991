// backend-go/internal/domain/marketplace.go
package domain

import "strings"

// Marketplace identifies a seller platform the pipeline can read from.
type Marketplace string

const (
	MarketplaceOzon        Marketplace = "ozon"
	MarketplaceWildberries Marketplace = "wb"
)

var marketplaceLabels = map[Marketplace]string{
	MarketplaceOzon:        "Ozon",
	MarketplaceWildberries: "Wildberries",
}

var marketplaceAliases = map[string]Marketplace{
	"ozon":        MarketplaceOzon,
	"wb":          MarketplaceWildberries,
	"wildberries": MarketplaceWildberries,
}

// Marketplaces returns every supported marketplace in a stable order.
func Marketplaces() []Marketplace {
	return []Marketplace{MarketplaceOzon, MarketplaceWildberries}
}

// ParseMarketplace resolves a marketplace name (case-insensitive).
func ParseMarketplace(name string) (Marketplace, bool) {
	mp, ok := marketplaceAliases[strings.ToLower(strings.TrimSpace(name))]
	return mp, ok
}

// Label returns a human-readable marketplace name.
func (m Marketplace) Label() string {
	if label, ok := marketplaceLabels[m]; ok {
		return label
	}
	return string(m)
}
