package domain

// OperationCategory is the semantic bucket a ledger operation falls into.
type OperationCategory string

const (
	CategorySale        OperationCategory = "sale"
	CategoryReturn      OperationCategory = "return"
	CategoryCommission  OperationCategory = "commission"
	CategoryLogistics   OperationCategory = "logistics"
	CategoryStorage     OperationCategory = "storage"
	CategoryPenalty     OperationCategory = "penalty"
	CategoryAdvertising OperationCategory = "advertising"
	CategoryOther       OperationCategory = "other"
)

// DeductionCategories lists the categories that reduce seller revenue, in report order.
var DeductionCategories = []OperationCategory{
	CategoryCommission,
	CategoryLogistics,
	CategoryStorage,
	CategoryPenalty,
	CategoryAdvertising,
}

var categoryLabels = map[OperationCategory]string{
	CategorySale:        "Sales",
	CategoryReturn:      "Returns",
	CategoryCommission:  "Commission",
	CategoryLogistics:   "Logistics",
	CategoryStorage:     "Storage",
	CategoryPenalty:     "Penalties",
	CategoryAdvertising: "Advertising & acceptance",
	CategoryOther:       "Other",
}

// IsDeduction reports whether the category is one of DeductionCategories.
func (c OperationCategory) IsDeduction() bool {
	switch c {
	case CategoryCommission, CategoryLogistics, CategoryStorage, CategoryPenalty, CategoryAdvertising:
		return true
	}
	return false
}

// Label returns the display name used in digests and exports.
func (c OperationCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Fees holds per-category charges embedded in a single ledger record.
type Fees map[OperationCategory]float64

// Total sums the charges in DeductionCategories order.
func (f Fees) Total() float64 {
	var total float64
	for _, cat := range DeductionCategories {
		total += f[cat]
	}
	return total
}
