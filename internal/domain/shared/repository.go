package shared

// MaxPageSize caps a single page of an admin list
const MaxPageSize = 100

// Filter describes one page of a product or quote request listing
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	// Search is matched case-insensitively against the listing's text columns
	Search string
	// Equals holds exact-match column filters such as status or category
	Equals map[string]string
}

// DefaultFilter returns the first page of 20, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Equals:   make(map[string]string),
	}
}

// Where adds an exact-match filter. Empty values are ignored.
func (f *Filter) Where(column, value string) {
	if value == "" {
		return
	}
	if f.Equals == nil {
		f.Equals = make(map[string]string)
	}
	f.Equals[column] = value
}

// Limit returns the page size clamped to MaxPageSize; zero means unpaged
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 0
	}
	return min(f.PageSize, MaxPageSize)
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page <= 1 || f.Limit() == 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}
