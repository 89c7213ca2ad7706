package port

import "time"

// ListQuery captures the paging and filtering parameters shared by every list
// endpoint. Zero values mean "no constraint"; repositories apply defaults for
// page and size.
type ListQuery struct {
	Page      int
	Size      int
	Order     string
	Search    string
	StatusID  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Offset returns the SQL offset implied by Page and Size.
func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the page size, defaulting to 10 and capping at 100.
func (q ListQuery) Limit() int {
	switch {
	case q.Size <= 0:
		return 10
	case q.Size > 100:
		return 100
	}
	return q.Size
}
