package repository

import "strings"

// sortClause resolves caller-provided sort parameters against an allow-list.
// Unknown fields fall back to created_at, unknown orders to DESC.
func sortClause(sortBy, sortOrder string, allowed map[string]string) (string, string) {
	column, ok := allowed[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return column, order
}

// pageClause normalises pagination inputs into LIMIT/OFFSET values.
func pageClause(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
