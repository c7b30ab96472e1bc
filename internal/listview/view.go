package listview

import (
	"errors"
	"sync"
)

// ErrPageOutOfRange is returned by SetPage for a page outside [1, PageCount].
var ErrPageOutOfRange = errors.New("page out of range")

// View holds one screen's raw collection together with its filter and page
// state. The current page is clamped to the valid range whenever the
// collection, the query or the category changes.
type View[T any] struct {
	mu       sync.RWMutex
	items    []T
	query    string
	category string
	page     int
	size     int

	searchFields  []Field[T]
	categoryField Field[T]
}

// NewView creates a view with the given page size and searchable fields.
func NewView[T any](size int, searchFields ...Field[T]) *View[T] {
	if size <= 0 {
		size = 10
	}
	return &View[T]{page: 1, size: size, searchFields: searchFields}
}

// WithCategory enables category filtering on field.
func (v *View[T]) WithCategory(field Field[T]) *View[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.categoryField = field
	return v
}

// SetItems replaces the raw collection.
func (v *View[T]) SetItems(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append([]T(nil), items...)
	v.clampLocked()
}

// Items returns a copy of the raw collection.
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Len is the size of the raw collection.
func (v *View[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// SetQuery changes the text search.
func (v *View[T]) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	v.clampLocked()
}

// Query returns the current text search.
func (v *View[T]) Query() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.query
}

// SetCategory changes the category filter.
func (v *View[T]) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.category = category
	v.clampLocked()
}

// Category returns the current category filter.
func (v *View[T]) Category() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.category
}

// SetPageSize changes the page size, e.g. when the viewport switches layout.
func (v *View[T]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.size = size
	v.clampLocked()
}

// SetPage moves to page. Out of range pages are rejected and leave the view unchanged.
func (v *View[T]) SetPage(page int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 || page > PageCount(len(v.filteredLocked()), v.size) {
		return ErrPageOutOfRange
	}
	v.page = page
	return nil
}

// Filtered returns every record that passes the current filters.
func (v *View[T]) Filtered() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filteredLocked()
}

// Page returns the visible rows and their position in the filtered collection.
func (v *View[T]) Page() ([]T, PageInfo) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	filtered := v.filteredLocked()
	return Paginate(filtered, v.page, v.size), Describe(len(filtered), v.page, v.size)
}

// Append adds a record at the end of the collection.
func (v *View[T]) Append(item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append(v.items, item)
}

// Replace swaps the first record matching match for item.
func (v *View[T]) Replace(match func(T) bool, item T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if match(v.items[i]) {
			v.items[i] = item
			v.clampLocked()
			return true
		}
	}
	return false
}

// Update applies fn to the first record matching match.
func (v *View[T]) Update(match func(T) bool, fn func(*T)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if match(v.items[i]) {
			fn(&v.items[i])
			v.clampLocked()
			return true
		}
	}
	return false
}

// Find returns the first record matching match.
func (v *View[T]) Find(match func(T) bool) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, item := range v.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Remove deletes exactly one record, the first matching match.
func (v *View[T]) Remove(match func(T) bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if match(v.items[i]) {
			v.items = append(v.items[:i:i], v.items[i+1:]...)
			v.clampLocked()
			return true
		}
	}
	return false
}

func (v *View[T]) filteredLocked() []T {
	out := Filter(v.items, v.query, v.searchFields...)
	return FilterCategory(out, v.category, v.categoryField)
}

func (v *View[T]) clampLocked() {
	count := PageCount(len(v.filteredLocked()), v.size)
	if v.page > count {
		v.page = count
	}
	if v.page < 1 {
		v.page = 1
	}
}
