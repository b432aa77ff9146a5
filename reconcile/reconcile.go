// Package reconcile re-reads pending Billplz bills from the gateway and
// applies their state to orders whose callback never arrived.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/models"
	"github.com/nusadigital/agency-site/repository"
	"github.com/nusadigital/agency-site/utils"
)

const DefaultBatchSize = 50

// BillFetcher reads a bill's current state
type BillFetcher interface {
	GetBill(ctx context.Context, id string) (*billplz.Bill, error)
}

// Change describes one order whose status differs from the gateway
type Change struct {
	OrderID string
	BillID  string
	From    string
	To      string
	Applied bool
}

type Result struct {
	Checked int
	Changes []Change
	Failed  int
}

// Reconciler walks every pending bill page by page. BatchSize is the page
// size; Limit caps the number of orders checked in one run (0 means all).
type Reconciler struct {
	Orders    repository.OrderRepository
	Bills     BillFetcher
	BatchSize int
	Limit     int
	DryRun    bool
	Now       func() time.Time
}

// Run checks pending bills oldest first, following a (created_at, id) cursor
// so bills that stay due do not hide newer ones. Per-bill failures are logged
// and counted; only a failure to list orders aborts the run.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	pageSize := r.BatchSize
	if pageSize <= 0 {
		pageSize = DefaultBatchSize
	}

	res := &Result{}
	var cursor *repository.PendingCursor
	for {
		size := pageSize
		if r.Limit > 0 {
			if remaining := r.Limit - res.Checked; remaining < size {
				size = remaining
			}
			if size <= 0 {
				return res, nil
			}
		}

		orders, err := r.Orders.ListPendingBills(ctx, cursor, size)
		if err != nil {
			return res, fmt.Errorf("list pending bills: %w", err)
		}
		utils.LogDebug("Reconcile: page of %d pending bills", len(orders))

		for _, order := range orders {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Checked++
			r.check(ctx, order, res)
		}

		if len(orders) < size {
			return res, nil
		}
		cursor = repository.CursorAfter(orders[len(orders)-1])
	}
}

func (r *Reconciler) check(ctx context.Context, order models.Order, res *Result) {
	bill, err := r.Bills.GetBill(ctx, order.BillplzBillID)
	if err != nil {
		utils.LogError("Reconcile: failed to fetch bill %s for order %s: %v", order.BillplzBillID, order.ID, err)
		res.Failed++
		return
	}

	status := billplz.MapPaymentStatus(fmt.Sprint(bill.Paid), bill.State)
	if status == order.PaymentStatus {
		return
	}

	change := Change{OrderID: order.ID, BillID: bill.ID, From: order.PaymentStatus, To: status}
	if !r.DryRun {
		upd := repository.PaymentUpdate{
			Status:        status,
			Method:        models.PaymentMethodBillplz,
			BillplzBillID: bill.ID,
			BillplzState:  bill.State,
		}
		if status == models.PaymentStatusPaid {
			paidAt := r.paidAt(bill)
			upd.PaidAt = &paidAt
		}
		if err := r.Orders.UpdatePayment(ctx, order.ID, upd); err != nil {
			utils.LogError("Reconcile: failed to update order %s: %v", order.ID, err)
			res.Failed++
			return
		}
		change.Applied = true
		utils.LogInfo("Reconcile: order %s %s -> %s", order.ID, change.From, change.To)
	}
	res.Changes = append(res.Changes, change)
}

func (r *Reconciler) paidAt(bill *billplz.Bill) time.Time {
	if t, ok := billplz.ParsePaidAt(bill.PaidAt); ok {
		return t
	}
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
