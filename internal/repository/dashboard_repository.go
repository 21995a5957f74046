package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harborview/backoffice-api/internal/models"
)

// DashboardRepository runs the aggregate queries behind the summary endpoint.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary computes the back-office landing page counters in one pass per table.
func (r *DashboardRepository) Summary(ctx context.Context, now time.Time) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{GeneratedAt: now.UTC()}

	counts := []struct {
		dest  *int
		query string
	}{
		{&summary.TotalEmployees, `SELECT COUNT(*) FROM employees`},
		{&summary.ActiveEmployees, `SELECT COUNT(*) FROM employees WHERE active = TRUE`},
		{&summary.TotalGuests, `SELECT COUNT(*) FROM guests`},
		{&summary.TotalSuppliers, `SELECT COUNT(*) FROM suppliers`},
		{&summary.InventoryItems, `SELECT COUNT(*) FROM inventory_items`},
		{&summary.SoldOutItems, `SELECT COUNT(*) FROM inventory_items WHERE status = 'sold_out'`},
		{&summary.PendingOrders, `SELECT COUNT(*) FROM purchase_orders WHERE status = 'pending'`},
		{&summary.ActiveReservations, `SELECT COUNT(*) FROM reservations WHERE status IN ('booked', 'checked_in')`},
		{&summary.UnpaidInvoices, `SELECT COUNT(*) FROM invoices WHERE status = 'unpaid'`},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	const revenueQuery = `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'paid' AND paid_at >= $1`
	if err := r.db.GetContext(ctx, &summary.RevenueThisMonth, revenueQuery, monthStart); err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}

	const outstandingQuery = `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'unpaid'`
	if err := r.db.GetContext(ctx, &summary.OutstandingBalance, outstandingQuery); err != nil {
		return nil, fmt.Errorf("dashboard outstanding: %w", err)
	}

	// Occupancy is the share of distinct rooms with a current checked-in booking
	// against all rooms ever seen in reservations.
	const occupancyQuery = `SELECT
		COALESCE(COUNT(DISTINCT room_number) FILTER (WHERE status = 'checked_in'), 0) AS occupied,
		COALESCE(COUNT(DISTINCT room_number), 0) AS total
		FROM reservations`
	var occ struct {
		Occupied int `db:"occupied"`
		Total    int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &occ, occupancyQuery); err != nil {
		return nil, fmt.Errorf("dashboard occupancy: %w", err)
	}
	if occ.Total > 0 {
		summary.OccupancyPercentage = float64(occ.Occupied) / float64(occ.Total) * 100
	}

	return summary, nil
}
