package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/harborview/backoffice-api/internal/models"
	"github.com/harborview/backoffice-api/pkg/export"
)

// exportPageSize bounds a single export sweep.
const exportPageSize = 100

// EmployeeDatasetProvider exports the staff roster.
func EmployeeDatasetProvider(repo employeeRepository) DatasetProvider {
	return func(ctx context.Context) (export.Dataset, error) {
		ds := export.Dataset{Headers: []string{"Full Name", "Email", "Job Title", "Department", "Active", "Hired At"}}
		page := 1
		for {
			employees, total, err := repo.List(ctx, models.EmployeeFilter{Page: page, PageSize: exportPageSize})
			if err != nil {
				return export.Dataset{}, err
			}
			for _, e := range employees {
				ds.Rows = append(ds.Rows, map[string]string{
					"Full Name":  e.FullName,
					"Email":      e.Email,
					"Job Title":  e.JobTitle,
					"Department": stringOrEmpty(e.Department),
					"Active":     strconv.FormatBool(e.Active),
					"Hired At":   dateOrEmpty(e.HiredAt),
				})
			}
			if page*exportPageSize >= total || len(employees) == 0 {
				return ds, nil
			}
			page++
		}
	}
}

// GuestDatasetProvider exports the guest registry.
func GuestDatasetProvider(repo guestRepository) DatasetProvider {
	return func(ctx context.Context) (export.Dataset, error) {
		ds := export.Dataset{Headers: []string{"Full Name", "Email", "Phone", "Nationality", "Active"}}
		page := 1
		for {
			guests, total, err := repo.List(ctx, models.GuestFilter{Page: page, PageSize: exportPageSize})
			if err != nil {
				return export.Dataset{}, err
			}
			for _, g := range guests {
				ds.Rows = append(ds.Rows, map[string]string{
					"Full Name":   g.FullName,
					"Email":       g.Email,
					"Phone":       stringOrEmpty(g.Phone),
					"Nationality": stringOrEmpty(g.Nationality),
					"Active":      strconv.FormatBool(g.Active),
				})
			}
			if page*exportPageSize >= total || len(guests) == 0 {
				return ds, nil
			}
			page++
		}
	}
}

// InventoryDatasetProvider exports current stock levels.
func InventoryDatasetProvider(repo inventoryRepository) DatasetProvider {
	return func(ctx context.Context) (export.Dataset, error) {
		ds := export.Dataset{Headers: []string{"Name", "Category", "Quantity", "Unit Price", "Status"}}
		page := 1
		for {
			items, total, err := repo.List(ctx, models.InventoryFilter{Page: page, PageSize: exportPageSize})
			if err != nil {
				return export.Dataset{}, err
			}
			for _, item := range items {
				ds.Rows = append(ds.Rows, map[string]string{
					"Name":       item.Name,
					"Category":   item.Category,
					"Quantity":   strconv.Itoa(item.Quantity),
					"Unit Price": fmt.Sprintf("%.2f", item.UnitPrice),
					"Status":     string(item.Status),
				})
			}
			if page*exportPageSize >= total || len(items) == 0 {
				return ds, nil
			}
			page++
		}
	}
}

// InvoiceDatasetProvider exports the billing ledger.
func InvoiceDatasetProvider(repo invoiceRepository) DatasetProvider {
	return func(ctx context.Context) (export.Dataset, error) {
		ds := export.Dataset{Headers: []string{"Number", "Guest", "Subtotal", "Tax", "Total", "Status", "Issued At"}}
		page := 1
		for {
			invoices, total, err := repo.List(ctx, models.InvoiceFilter{Page: page, PageSize: exportPageSize})
			if err != nil {
				return export.Dataset{}, err
			}
			for _, inv := range invoices {
				ds.Rows = append(ds.Rows, map[string]string{
					"Number":    inv.Number,
					"Guest":     stringOrEmpty(inv.GuestName),
					"Subtotal":  fmt.Sprintf("%.2f", inv.Subtotal),
					"Tax":       fmt.Sprintf("%.2f", inv.Tax),
					"Total":     fmt.Sprintf("%.2f", inv.Total),
					"Status":    string(inv.Status),
					"Issued At": inv.IssuedAt.Format("2006-01-02"),
				})
			}
			if page*exportPageSize >= total || len(invoices) == 0 {
				return ds, nil
			}
			page++
		}
	}
}

// AttendanceDatasetProvider exports the attendance log.
func AttendanceDatasetProvider(repo attendanceRepository) DatasetProvider {
	return func(ctx context.Context) (export.Dataset, error) {
		ds := export.Dataset{Headers: []string{"Employee", "Date", "Status", "Check In", "Check Out"}}
		page := 1
		for {
			records, total, err := repo.List(ctx, models.AttendanceFilter{Page: page, PageSize: exportPageSize})
			if err != nil {
				return export.Dataset{}, err
			}
			for _, rec := range records {
				ds.Rows = append(ds.Rows, map[string]string{
					"Employee":  stringOrEmpty(rec.EmployeeName),
					"Date":      rec.Date.Format("2006-01-02"),
					"Status":    string(rec.Status),
					"Check In":  clockOrEmpty(rec.CheckInTime),
					"Check Out": clockOrEmpty(rec.CheckOutTime),
				})
			}
			if page*exportPageSize >= total || len(records) == 0 {
				return ds, nil
			}
			page++
		}
	}
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func dateOrEmpty(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}

func clockOrEmpty(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("15:04")
}
