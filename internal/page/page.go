package page

const (
	defaultSize = 25
	maxSize     = 100
)

type Page[T any] struct {
	// Records are the records found for the page requested.
	Records []T
	// TotalRecords is the total number of records available.
	TotalRecords int
	// TotalPages is the total number of pages based on Size and TotalRecords.
	TotalPages int
	Pagination
}

type Pagination struct {
	// Number is the page number requested, starting at 1.
	Number int
	Size   int
}

// Offset calculates the offset based on the page number and size.
func (p Pagination) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Pagination) Limit() int {
	return p.Size
}

// NewPagination falls back to the first page and the default size when the
// values are missing or out of range.
func NewPagination(pageNumber int, pageSize int) Pagination {
	pagination := Pagination{
		Number: 1,
		Size:   defaultSize,
	}

	if pageNumber > 0 {
		pagination.Number = pageNumber
	}

	if pageSize > 0 {
		pagination.Size = min(pageSize, maxSize)
	}

	return pagination
}

// New wraps records already fetched for pagination, with total being the
// number of records across all pages.
func New[T any](records []T, pagination Pagination, total int) Page[T] {
	return Page[T]{
		Records:      records,
		TotalRecords: total,
		// Adding (pagination.Size - 1) rounds partial pages up.
		TotalPages: (total + pagination.Size - 1) / pagination.Size,
		Pagination: pagination,
	}
}

// Paginate slices a list of records into a specific page of data based on the
// provided pagination parameters.
func Paginate[T any](records []T, pagination Pagination) Page[T] {
	page := New[T](nil, pagination, len(records))

	start := pagination.Offset()
	if start >= len(records) {
		return page
	}

	end := min(start+pagination.Size, len(records))
	page.Records = records[start:end]
	return page
}
