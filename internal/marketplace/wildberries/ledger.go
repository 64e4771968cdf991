package wildberries

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/ingest"
)

type reportRow struct {
	RRDID            int64   `json:"rrd_id"`
	SupplierOperName string  `json:"supplier_oper_name"`
	NmID             int64   `json:"nm_id"`
	SaleDT           string  `json:"sale_dt"`
	RRDT             string  `json:"rr_dt"`
	RetailPrice      float64 `json:"retail_price"`
	PPVZForPay       float64 `json:"ppvz_for_pay"`
	DeliveryRub      float64 `json:"delivery_rub"`
	StorageFee       float64 `json:"storage_fee"`
	Penalty          float64 `json:"penalty"`
	PaidAcceptance   float64 `json:"paid_acceptance"`
}

func (c *Client) LedgerStart(domain.Period) ingest.Cursor {
	return ingest.Cursor{}
}

// FetchLedger reads one page of reportDetailByPeriod, continuing after the last rrd_id.
func (c *Client) FetchLedger(ctx context.Context, period domain.Period, cursor ingest.Cursor) (ingest.Page[domain.RawRecord], error) {
	query := url.Values{}
	query.Set("dateFrom", period.From.Format(domain.DateLayout))
	query.Set("dateTo", period.To.Format(domain.DateLayout))
	query.Set("rrdid", strconv.FormatInt(cursor.ID, 10))
	query.Set("limit", strconv.Itoa(c.cfg.LedgerLimit))

	var rows []reportRow
	ok, err := c.get(ctx, "/api/v5/supplier/reportDetailByPeriod", query, &rows)
	if err != nil || !ok {
		return ingest.Page[domain.RawRecord]{}, err
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}

	var lastID int64
	if len(rows) > 0 {
		lastID = rows[len(rows)-1].RRDID
	}

	return ingest.Page[domain.RawRecord]{
		Records: records,
		Next:    ingest.NextID(lastID, len(rows), c.cfg.LedgerLimit),
	}, nil
}

// toRecord keeps the row's own fee columns as fees; every row may carry them.
func toRecord(row reportRow) domain.RawRecord {
	rec := domain.RawRecord{
		Operation:  strings.TrimSpace(row.SupplierOperName),
		Gross:      row.RetailPrice,
		NetPaid:    row.PPVZForPay,
		HasNetPaid: true,
		Timestamp:  parseTime(row.SaleDT),
		Fees: domain.Fees{
			domain.CategoryLogistics:   row.DeliveryRub,
			domain.CategoryStorage:     row.StorageFee,
			domain.CategoryPenalty:     row.Penalty,
			domain.CategoryAdvertising: row.PaidAcceptance,
		},
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = parseTime(row.RRDT)
	}
	if row.RRDID != 0 {
		rec.Key = strconv.FormatInt(row.RRDID, 10)
	}
	if row.NmID != 0 {
		rec.SKU = strconv.FormatInt(row.NmID, 10)
	}
	return rec
}
