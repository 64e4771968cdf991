package ozon

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/classify"
	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
)

const (
	operationDateLayout = "2006-01-02 15:04:05"
	ledgerDateLayout    = "2006-01-02T15:04:05.000Z"
)

type transactionRequest struct {
	Filter   transactionFilter `json:"filter"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type transactionFilter struct {
	Date struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"date"`
	OperationType   []string `json:"operation_type"`
	PostingNumber   string   `json:"posting_number"`
	TransactionType string   `json:"transaction_type"`
}

type transactionResponse struct {
	Result struct {
		Operations []operation `json:"operations"`
		PageCount  int         `json:"page_count"`
		RowCount   int         `json:"row_count"`
	} `json:"result"`
}

type operation struct {
	OperationID       int64     `json:"operation_id"`
	OperationType     string    `json:"operation_type"`
	OperationTypeName string    `json:"operation_type_name"`
	OperationDate     string    `json:"operation_date"`
	AccrualsForSale   float64   `json:"accruals_for_sale"`
	SaleCommission    float64   `json:"sale_commission"`
	Amount            float64   `json:"amount"`
	Items             []item    `json:"items"`
	Services          []service `json:"services"`
}

type item struct {
	Name string `json:"name"`
	SKU  int64  `json:"sku"`
}

type service struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (c *Client) LedgerStart(domain.Period) ingest.Cursor {
	return ingest.Cursor{Page: 1}
}

// FetchLedger reads one page of /v3/finance/transaction/list.
func (c *Client) FetchLedger(ctx context.Context, period domain.Period, cursor ingest.Cursor) (ingest.Page[domain.RawRecord], error) {
	req := transactionRequest{Page: cursor.Page, PageSize: c.cfg.PageSize}
	req.Filter.Date.From = period.From.Format(ledgerDateLayout)
	req.Filter.Date.To = period.End().Format(ledgerDateLayout)
	req.Filter.OperationType = []string{}
	req.Filter.TransactionType = "all"

	var resp transactionResponse
	if _, err := c.post(ctx, "/v3/finance/transaction/list", req, &resp); err != nil {
		return ingest.Page[domain.RawRecord]{}, err
	}

	var records []domain.RawRecord
	for _, op := range resp.Result.Operations {
		records = append(records, toRecords(op)...)
	}

	return ingest.Page[domain.RawRecord]{
		Records: records,
		Next:    ingest.NextPage(cursor, resp.Result.PageCount),
	}, nil
}

// toRecords splits an operation evenly across its items. Sales and returns carry
// their commission and services as fees; other operations keep their signed amount.
// Only the first item line counts toward the period's orders or returns.
func toRecords(op operation) []domain.RawRecord {
	label := op.OperationType
	category := classify.Ozon.Classify(label)
	if category == domain.CategoryOther && op.OperationTypeName != "" {
		if byName := classify.Ozon.Classify(op.OperationTypeName); byName != domain.CategoryOther {
			label, category = op.OperationTypeName, byName
		}
	}

	ts, _ := time.ParseInLocation(operationDateLayout, op.OperationDate, time.UTC)

	skus := make([]string, 0, len(op.Items))
	for _, it := range op.Items {
		if it.SKU != 0 {
			skus = append(skus, strconv.FormatInt(it.SKU, 10))
		}
	}
	if len(skus) == 0 {
		skus = []string{""}
	}
	share := float64(len(skus))

	var records []domain.RawRecord
	for i, sku := range skus {
		rec := domain.RawRecord{
			Key:          fmt.Sprintf("%d:%d", op.OperationID, i),
			Operation:    label,
			SKU:          sku,
			Timestamp:    ts,
			Continuation: i > 0,
		}

		switch category {
		case domain.CategorySale, domain.CategoryReturn:
			rec.Gross = math.Abs(op.AccrualsForSale) / share
			rec.Fees = domain.Fees{}
			if category == domain.CategorySale && op.SaleCommission != 0 {
				rec.Fees[domain.CategoryCommission] = math.Abs(op.SaleCommission) / share
			}
			for j, svc := range op.Services {
				svcCategory := serviceCategory(svc.Name)
				if svcCategory.IsDeduction() {
					rec.Fees[svcCategory] += math.Abs(svc.Price) / share
					continue
				}
				records = append(records, domain.RawRecord{
					Key:       fmt.Sprintf("%d:%d:svc%d", op.OperationID, i, j),
					Operation: svc.Name,
					Category:  svcCategory,
					SKU:       sku,
					Timestamp: ts,
					Amount:    svc.Price / share,
				})
			}
		default:
			rec.Amount = op.Amount / share
		}

		records = append(records, rec)
	}
	return records
}

// serviceCategory classifies a service embedded in an operation. Services are
// always charges, so names that read like a sale or a return are kept as other.
func serviceCategory(name string) domain.OperationCategory {
	category := classify.Ozon.Classify(name)
	if category.IsDeduction() {
		return category
	}
	return domain.CategoryOther
}
