// Package classify maps marketplace operation labels to operation categories.
package classify

import (
	"strings"

	"github.com/andresuchdata/sellerpulse/internal/domain"
)

// Rule matches labels containing a lower-case fragment.
type Rule struct {
	Contains string
	Category domain.OperationCategory
}

// Table is an immutable per-source lookup: exact labels first, then ordered substring rules.
type Table struct {
	name  string
	exact map[string]domain.OperationCategory
	rules []Rule
}

// NewTable builds a table from label sets keyed by category.
func NewTable(name string, sets map[domain.OperationCategory][]string, rules ...Rule) *Table {
	exact := make(map[string]domain.OperationCategory)
	for cat, labels := range sets {
		for _, label := range labels {
			exact[normalize(label)] = cat
		}
	}

	lowered := make([]Rule, 0, len(rules))
	for _, r := range rules {
		lowered = append(lowered, Rule{Contains: strings.ToLower(r.Contains), Category: r.Category})
	}

	return &Table{name: name, exact: exact, rules: lowered}
}

func (t *Table) Name() string {
	return t.name
}

// Classify never fails; unknown labels are CategoryOther.
func (t *Table) Classify(label string) domain.OperationCategory {
	if t == nil {
		return domain.CategoryOther
	}

	key := normalize(label)
	if key == "" {
		return domain.CategoryOther
	}
	if cat, ok := t.exact[key]; ok {
		return cat
	}

	lower := strings.ToLower(key)
	for _, r := range t.rules {
		if strings.Contains(lower, r.Contains) {
			return r.Category
		}
	}
	return domain.CategoryOther
}

// Classify resolves a label with the table registered for the marketplace.
func Classify(label string, mp domain.Marketplace) domain.OperationCategory {
	return ForMarketplace(mp).Classify(label)
}

// ForMarketplace returns nil for unknown marketplaces; a nil table classifies everything as other.
func ForMarketplace(mp domain.Marketplace) *Table {
	switch mp {
	case domain.MarketplaceOzon:
		return Ozon
	case domain.MarketplaceWildberries:
		return Wildberries
	}
	return nil
}

func normalize(label string) string {
	return strings.Join(strings.Fields(label), " ")
}
