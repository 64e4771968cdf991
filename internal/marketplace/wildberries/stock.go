package wildberries

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
)

// stockEpoch is early enough to cover every stock line on the account.
var stockEpoch = time.Date(2019, 6, 20, 0, 0, 0, 0, time.UTC)

type stockRow struct {
	NmID            int64  `json:"nmId"`
	Barcode         string `json:"barcode"`
	SupplierArticle string `json:"supplierArticle"`
	WarehouseName   string `json:"warehouseName"`
	Quantity        int    `json:"quantity"`
	LastChangeDate  string `json:"lastChangeDate"`
}

func (c *Client) StockStart(time.Time) ingest.Cursor {
	return ingest.Cursor{Since: stockEpoch}
}

// FetchStock reads stock lines changed since the cursor. Lines at the boundary
// timestamp come back on the next page and are de-duplicated by barcode and warehouse.
func (c *Client) FetchStock(ctx context.Context, cursor ingest.Cursor) (ingest.Page[domain.StockRecord], error) {
	query := url.Values{}
	query.Set("dateFrom", cursor.Since.UTC().Format("2006-01-02T15:04:05"))

	var rows []stockRow
	ok, err := c.get(ctx, "/api/v1/supplier/stocks", query, &rows)
	if err != nil || !ok {
		return ingest.Page[domain.StockRecord]{}, err
	}

	records := make([]domain.StockRecord, 0, len(rows))
	var last time.Time
	for _, row := range rows {
		sku := strconv.FormatInt(row.NmID, 10)
		key := row.Barcode
		if key == "" {
			key = sku
		}
		changed := parseTime(row.LastChangeDate)
		if changed.After(last) {
			last = changed
		}
		records = append(records, domain.StockRecord{
			Key:        key + "|" + row.WarehouseName,
			SKU:        sku,
			Warehouse:  row.WarehouseName,
			Quantity:   row.Quantity,
			LastChange: changed,
		})
	}

	return ingest.Page[domain.StockRecord]{
		Records: records,
		Next:    ingest.NextSince(last, len(rows), c.cfg.StockPageSize),
	}, nil
}
