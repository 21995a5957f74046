package listctrl

import (
	"strings"

	"github.com/harborview/backoffice-api/internal/models"
)

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func activateRoute(status string) (string, bool) {
	if status == "active" {
		return "activate", false
	}
	return "deactivate", false
}

func statusBodyRoute(string) (string, bool) {
	return "status", true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Users configures the admin-account list.
func Users() Resource[models.User] {
	return Resource[models.User]{
		Name: "user",
		Path: "/users",
		ID:   func(u models.User) string { return u.ID },
		Searchable: func(u models.User) []string {
			return []string{u.FullName, u.Email, deref(u.Phone), string(u.Role)}
		},
		Status: func(u models.User) string { return activeLabel(u.Active) },
		SortFields: map[string]func(a, b models.User) int{
			"name":       func(a, b models.User) int { return strings.Compare(a.FullName, b.FullName) },
			"email":      func(a, b models.User) int { return strings.Compare(a.Email, b.Email) },
			"created_at": func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
		DefaultSort: "name",
		StatusRoute: activateRoute,
	}
}

// Employees configures the staff roster list.
func Employees() Resource[models.Employee] {
	return Resource[models.Employee]{
		Name: "employee",
		Path: "/employees",
		ID:   func(e models.Employee) string { return e.ID },
		Searchable: func(e models.Employee) []string {
			return []string{e.FullName, e.Email, deref(e.Phone), e.JobTitle, deref(e.Department)}
		},
		Status: func(e models.Employee) string { return activeLabel(e.Active) },
		SortFields: map[string]func(a, b models.Employee) int{
			"name":       func(a, b models.Employee) int { return strings.Compare(a.FullName, b.FullName) },
			"email":      func(a, b models.Employee) int { return strings.Compare(a.Email, b.Email) },
			"created_at": func(a, b models.Employee) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
		DefaultSort: "name",
		StatusRoute: activateRoute,
	}
}

// Guests configures the guest directory list.
func Guests() Resource[models.Guest] {
	return Resource[models.Guest]{
		Name: "guest",
		Path: "/guests",
		ID:   func(g models.Guest) string { return g.ID },
		Searchable: func(g models.Guest) []string {
			return []string{g.FullName, g.Email, deref(g.Phone), deref(g.Nationality)}
		},
		Status: func(g models.Guest) string { return activeLabel(g.Active) },
		SortFields: map[string]func(a, b models.Guest) int{
			"name":       func(a, b models.Guest) int { return strings.Compare(a.FullName, b.FullName) },
			"created_at": func(a, b models.Guest) int { return a.CreatedAt.Compare(b.CreatedAt) },
		},
		DefaultSort: "name",
		StatusRoute: activateRoute,
	}
}

// Suppliers configures the supplier directory list.
func Suppliers() Resource[models.Supplier] {
	return Resource[models.Supplier]{
		Name: "supplier",
		Path: "/suppliers",
		ID:   func(s models.Supplier) string { return s.ID },
		Searchable: func(s models.Supplier) []string {
			return []string{s.Name, s.Email, deref(s.Phone), s.Category}
		},
		Status: func(s models.Supplier) string { return activeLabel(s.Active) },
		SortFields: map[string]func(a, b models.Supplier) int{
			"name":     func(a, b models.Supplier) int { return strings.Compare(a.Name, b.Name) },
			"category": func(a, b models.Supplier) int { return strings.Compare(a.Category, b.Category) },
		},
		DefaultSort: "name",
		StatusRoute: activateRoute,
	}
}

// Inventory configures the stock list.
func Inventory() Resource[models.InventoryItem] {
	return Resource[models.InventoryItem]{
		Name: "inventory item",
		Path: "/inventory",
		ID:   func(i models.InventoryItem) string { return i.ID },
		Searchable: func(i models.InventoryItem) []string {
			return []string{i.Name, i.Category, deref(i.Description)}
		},
		Status: func(i models.InventoryItem) string { return string(i.Status) },
		SortFields: map[string]func(a, b models.InventoryItem) int{
			"name":     func(a, b models.InventoryItem) int { return strings.Compare(a.Name, b.Name) },
			"category": func(a, b models.InventoryItem) int { return strings.Compare(a.Category, b.Category) },
			"quantity": func(a, b models.InventoryItem) int { return a.Quantity - b.Quantity },
		},
		DefaultSort: "name",
		StatusRoute: statusBodyRoute,
	}
}

// PurchaseOrders configures the purchase-order list.
func PurchaseOrders() Resource[models.PurchaseOrder] {
	return Resource[models.PurchaseOrder]{
		Name: "purchase order",
		Path: "/purchase-orders",
		ID:   func(o models.PurchaseOrder) string { return o.ID },
		Searchable: func(o models.PurchaseOrder) []string {
			return []string{o.Number, o.ItemName}
		},
		Status: func(o models.PurchaseOrder) string { return string(o.Status) },
		SortFields: map[string]func(a, b models.PurchaseOrder) int{
			"number":     func(a, b models.PurchaseOrder) int { return strings.Compare(a.Number, b.Number) },
			"ordered_at": func(a, b models.PurchaseOrder) int { return a.OrderedAt.Compare(b.OrderedAt) },
		},
		DefaultSort: "ordered_at",
		StatusRoute: statusBodyRoute,
	}
}

// Invoices configures the billing list.
func Invoices() Resource[models.Invoice] {
	return Resource[models.Invoice]{
		Name: "invoice",
		Path: "/invoices",
		ID:   func(i models.Invoice) string { return i.ID },
		Searchable: func(i models.Invoice) []string {
			return []string{i.Number, i.GuestID}
		},
		Status: func(i models.Invoice) string { return string(i.Status) },
		SortFields: map[string]func(a, b models.Invoice) int{
			"number":    func(a, b models.Invoice) int { return strings.Compare(a.Number, b.Number) },
			"issued_at": func(a, b models.Invoice) int { return a.IssuedAt.Compare(b.IssuedAt) },
		},
		DefaultSort: "issued_at",
		StatusRoute: statusBodyRoute,
	}
}

// Reservations configures the reservation calendar list.
func Reservations() Resource[models.Reservation] {
	return Resource[models.Reservation]{
		Name: "reservation",
		Path: "/reservations",
		ID:   func(r models.Reservation) string { return r.ID },
		Searchable: func(r models.Reservation) []string {
			return []string{r.Code, r.RoomNumber, r.GuestID}
		},
		Status: func(r models.Reservation) string { return string(r.Status) },
		SortFields: map[string]func(a, b models.Reservation) int{
			"code":     func(a, b models.Reservation) int { return strings.Compare(a.Code, b.Code) },
			"check_in": func(a, b models.Reservation) int { return a.CheckIn.Compare(b.CheckIn) },
		},
		DefaultSort: "check_in",
		StatusRoute: statusBodyRoute,
	}
}

// Attendance configures the attendance-record list.
func Attendance() Resource[models.AttendanceRecord] {
	return Resource[models.AttendanceRecord]{
		Name: "attendance record",
		Path: "/attendance",
		ID:   func(r models.AttendanceRecord) string { return r.ID },
		Searchable: func(r models.AttendanceRecord) []string {
			return []string{deref(r.EmployeeName), r.EmployeeID}
		},
		Status: func(r models.AttendanceRecord) string { return string(r.Status) },
		SortFields: map[string]func(a, b models.AttendanceRecord) int{
			"date": func(a, b models.AttendanceRecord) int { return a.Date.Compare(b.Date) },
		},
		DefaultSort: "date",
		StatusRoute: statusBodyRoute,
	}
}
