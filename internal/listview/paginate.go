package listview

// PageInfo describes the visible window of a filtered collection.
// From and To are 1-based and inclusive; both are 0 when Empty.
type PageInfo struct {
	Page      int  `json:"page"`
	PageCount int  `json:"pageCount"`
	PageSize  int  `json:"pageSize"`
	Total     int  `json:"total"`
	From      int  `json:"from"`
	To        int  `json:"to"`
	Empty     bool `json:"empty"`
}

// PageCount is ceil(total/size), never less than 1.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate returns items[(page-1)*size : page*size]. Pages outside the
// collection yield an empty slice rather than being clamped.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

// Describe builds the PageInfo for page of a collection of total records.
func Describe(total, page, size int) PageInfo {
	info := PageInfo{
		Page:      page,
		PageCount: PageCount(total, size),
		PageSize:  size,
		Total:     total,
		Empty:     total == 0,
	}
	if info.Empty || size <= 0 || page < 1 {
		return info
	}
	from := (page-1)*size + 1
	if from > total {
		return info
	}
	to := page * size
	if to > total {
		to = total
	}
	info.From, info.To = from, to
	return info
}
