package sitemap

// PageSize is the maximum number of entries one sitemap document may carry,
// fixed by the sitemap protocol.
const PageSize = 50000

// PageCount returns the number of pages needed for total entries: the
// ceiling of total/PageSize, and 0 when there is nothing to paginate.
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// PageBounds returns the half-open entry range [lo, hi) assigned to the
// 0-based page index. For every valid index the ranges are contiguous,
// non-overlapping, and cover [0, total) exactly; every page except possibly
// the last holds PageSize entries, and the last is never empty.
func PageBounds(total, page int) (lo, hi int, err error) {
	count := PageCount(total)
	if page < 0 || page >= count {
		return 0, 0, &PageRangeError{Page: page, PageCount: count}
	}

	lo = page * PageSize
	hi = lo + PageSize
	if hi > total {
		hi = total
	}
	return lo, hi, nil
}
