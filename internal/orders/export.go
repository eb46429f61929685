package orders

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
)

var exportHeader = []string{"order_id", "customer", "email", "status", "items", "total_usd", "payment_ref", "created_at"}

// ExportCSV streams every order matching the filters as CSV, paging through
// the table with the same keyset cursor the listing endpoints use.
func (s *service) ExportCSV(ctx context.Context, w io.Writer, filters OrderFilters) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header")
	}

	var cursor *pagination.Cursor
	for {
		rows, err := s.orders.List(ctx, filters, pagination.LimitWithBuffer(pagination.MaxLimit), cursor)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders for export")
		}

		page := rows
		if len(rows) > pagination.MaxLimit {
			page = rows[:pagination.MaxLimit]
		}
		for i := range page {
			if err := writer.Write(exportRow(&page[i])); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv row")
			}
		}

		if len(rows) <= pagination.MaxLimit {
			break
		}
		last := page[len(page)-1]
		cursor = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing csv")
	}
	return nil
}

func exportRow(order *models.Order) []string {
	var name, email string
	if order.User != nil {
		name = order.User.Name
		email = order.User.Email
	}
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	total := decimal.NewFromInt(int64(order.TotalCents)).Div(decimal.NewFromInt(100))
	var paymentRef string
	if order.PaymentRef != nil {
		paymentRef = *order.PaymentRef
	}
	return []string{
		order.ID.String(),
		name,
		email,
		order.Status.String(),
		strconv.Itoa(itemCount),
		total.StringFixed(2),
		paymentRef,
		order.CreatedAt.UTC().Format(time.RFC3339),
	}
}
