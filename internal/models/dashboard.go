package models

import "time"

// DashboardSummary aggregates the counters shown on the back-office landing page.
type DashboardSummary struct {
	TotalEmployees      int     `json:"total_employees"`
	ActiveEmployees     int     `json:"active_employees"`
	TotalGuests         int     `json:"total_guests"`
	TotalSuppliers      int     `json:"total_suppliers"`
	InventoryItems      int     `json:"inventory_items"`
	SoldOutItems        int     `json:"sold_out_items"`
	PendingOrders       int     `json:"pending_orders"`
	ActiveReservations  int     `json:"active_reservations"`
	UnpaidInvoices      int     `json:"unpaid_invoices"`
	RevenueThisMonth    float64 `json:"revenue_this_month"`
	OutstandingBalance  float64 `json:"outstanding_balance"`
	OccupancyPercentage float64 `json:"occupancy_percentage"`

	GeneratedAt time.Time `json:"generated_at"`
}
