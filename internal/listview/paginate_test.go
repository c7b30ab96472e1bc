package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 8))
	assert.Equal(t, 1, PageCount(8, 8))
	assert.Equal(t, 2, PageCount(9, 8))
	assert.Equal(t, 3, PageCount(21, 10))
}

func TestPaginate_Window(t *testing.T) {
	items := numbers(21)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Paginate(items, 1, 10))
	assert.Equal(t, []int{21}, Paginate(items, 3, 10))
	assert.Empty(t, Paginate(items, 4, 10))
	assert.Empty(t, Paginate(items, 0, 10))
}

func TestPaginate_ConcatenationReconstructsCollection(t *testing.T) {
	for _, total := range []int{0, 1, 7, 8, 9, 33} {
		for _, size := range []int{1, 4, 8, 10} {
			items := numbers(total)
			var rebuilt []int
			for page := 1; page <= PageCount(total, size); page++ {
				rebuilt = append(rebuilt, Paginate(items, page, size)...)
			}
			assert.Equal(t, total, len(rebuilt), "total=%d size=%d", total, size)
			if total > 0 {
				assert.Equal(t, items, rebuilt, "total=%d size=%d", total, size)
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, PageInfo{Page: 2, PageCount: 3, PageSize: 10, Total: 21, From: 11, To: 20}, Describe(21, 2, 10))
	assert.Equal(t, PageInfo{Page: 3, PageCount: 3, PageSize: 10, Total: 21, From: 21, To: 21}, Describe(21, 3, 10))
	assert.Equal(t, PageInfo{Page: 1, PageCount: 1, PageSize: 8, Total: 0, Empty: true}, Describe(0, 1, 8))
}
