package pagination

// DefaultMaxVisible is the number of direct page links shown by list views.
const DefaultMaxVisible = 5

// Window returns the page numbers to render as direct links for a list of
// total items viewed limit at a time with page selected.
//
// The window holds min(maxVisible, pages) consecutive pages centered on page
// where possible and shifted away from whichever edge clamps it. page is
// clamped into [1, pages] first. maxVisible <= 0 selects DefaultMaxVisible and
// even values are rounded up so the current page can sit in the middle.
func Window(total, page, limit, maxVisible int) []int {
	pages := Pages(total, limit)
	if pages == 0 {
		return []int{}
	}
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}
	if maxVisible%2 == 0 {
		maxVisible++
	}
	page = min(max(page, 1), pages)

	start := max(1, page-maxVisible/2)
	end := min(pages, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(1, end-maxVisible+1)
	}

	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}
