package pagination

// Result holds one page of items and its metadata.
type Result[T any] struct {
	Items []T
	Meta  Meta
}

// Paginate slices items to the page described by p. Pages past the end yield
// an empty, non-nil slice.
func Paginate[T any](items []T, p Params) Result[T] {
	n := p.Normalize()
	total := len(items)

	start := min((n.Page-1)*n.Limit, total)
	end := min(start+n.Limit, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	return Result[T]{
		Items: page,
		Meta:  NewMeta(n, total),
	}
}
