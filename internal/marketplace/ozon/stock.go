package ozon

import (
	"context"
	"strconv"
	"time"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
)

type stockRequest struct {
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	WarehouseType string `json:"warehouse_type"`
}

type stockResponse struct {
	Result struct {
		Rows []stockRow `json:"rows"`
	} `json:"result"`
}

type stockRow struct {
	SKU              int64  `json:"sku"`
	ItemCode         string `json:"item_code"`
	ItemName         string `json:"item_name"`
	FreeToSellAmount int    `json:"free_to_sell_amount"`
	PromisedAmount   int    `json:"promised_amount"`
	ReservedAmount   int    `json:"reserved_amount"`
	WarehouseName    string `json:"warehouse_name"`
}

func (c *Client) StockStart(time.Time) ingest.Cursor {
	return ingest.Cursor{}
}

// FetchStock reads one page of /v2/analytics/stock_on_warehouses. Quantity is the
// amount free to sell; Ozon reports no movement dates.
func (c *Client) FetchStock(ctx context.Context, cursor ingest.Cursor) (ingest.Page[domain.StockRecord], error) {
	req := stockRequest{Limit: c.cfg.PageSize, Offset: cursor.Offset, WarehouseType: "ALL"}

	var resp stockResponse
	if _, err := c.post(ctx, "/v2/analytics/stock_on_warehouses", req, &resp); err != nil {
		page := ingest.Page[domain.StockRecord]{}
		if ingest.KindOf(err) == ingest.KindMalformed {
			page.Next = &ingest.Cursor{Offset: cursor.Offset + c.cfg.PageSize}
		}
		return page, err
	}

	records := make([]domain.StockRecord, 0, len(resp.Result.Rows))
	for _, row := range resp.Result.Rows {
		sku := row.ItemCode
		if row.SKU != 0 {
			sku = strconv.FormatInt(row.SKU, 10)
		}
		records = append(records, domain.StockRecord{
			Key:       sku + "|" + row.WarehouseName,
			SKU:       sku,
			Warehouse: row.WarehouseName,
			Quantity:  row.FreeToSellAmount,
		})
	}

	return ingest.Page[domain.StockRecord]{
		Records: records,
		Next:    ingest.NextOffset(cursor, len(resp.Result.Rows), c.cfg.PageSize),
	}, nil
}
