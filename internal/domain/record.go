package domain

import "time"

// RawRecord is one ledger line as delivered by a marketplace feed.
// Monetary fields are source-dependent subsets; zero means "not provided".
type RawRecord struct {
	// Key is a stable per-record identifier used to drop re-delivered rows.
	Key       string
	Operation string
	// Category, when set, is used instead of classifying Operation.
	Category  OperationCategory
	SKU       string
	Timestamp time.Time

	// Gross is the sale price of the line (positive for sales and returns alike).
	Gross float64
	// NetPaid is the amount transferred to the seller, valid when HasNetPaid is set.
	NetPaid    float64
	HasNetPaid bool
	// Amount is the signed amount of standalone deduction or unclassified rows.
	Amount float64
	// Fees are charges carried on the line itself.
	Fees Fees
	// Continuation marks the extra item lines of a multi-item operation. They
	// add to SKU orders and returns but not to the period counts.
	Continuation bool
}

// StockRecord is one stock-location line.
type StockRecord struct {
	Key        string
	SKU        string
	Warehouse  string
	Quantity   int
	LastChange time.Time
}
