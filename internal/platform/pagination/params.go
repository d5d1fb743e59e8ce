package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size of the Students list.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 200
)

// Params is the query state of a paginated list: current page, page size and
// search text. It embeds into Huma input structs on the server side and is
// held by list controllers on the client side.
type Params struct {
	Page   int    `query:"page"   doc:"1-based page number"            default:"1"  minimum:"1"`
	Limit  int    `query:"limit"  doc:"Maximum items per page"         default:"10" minimum:"1" maximum:"200"`
	Search string `query:"search" doc:"Case-insensitive substring filter"`
}

// CurrentPage returns the page, defaulting to 1 when unset.
func (p Params) CurrentPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// DefaultLimit returns the limit, defaulting to DefaultLimit if zero and
// capping it at MaxLimit.
func (p Params) DefaultLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return min(p.Limit, MaxLimit)
}

// Normalize returns p with page and limit defaulted and search trimmed.
func (p Params) Normalize() Params {
	return Params{
		Page:   p.CurrentPage(),
		Limit:  p.DefaultLimit(),
		Search: strings.TrimSpace(p.Search),
	}
}

// WithSearch returns p with a new search text. A changed search always starts
// again from the first page.
func (p Params) WithSearch(search string) Params {
	p.Search = search
	p.Page = 1
	return p
}

// WithPage returns p moved to page, keeping search and limit.
func (p Params) WithPage(page int) Params {
	p.Page = max(page, 1)
	return p
}

// Values encodes p as request query parameters. Search is omitted when empty.
func (p Params) Values() url.Values {
	n := p.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(n.Page))
	v.Set("limit", strconv.Itoa(n.Limit))
	if n.Search != "" {
		v.Set("search", n.Search)
	}
	return v
}
