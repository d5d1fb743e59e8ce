package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/ref"
)

const (
	barWidth = 30
	noValue  = "-"
)

// table writes tab-separated rows as aligned columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	for i, c := range cols {
		if c == "" {
			cols[i] = noValue
		}
	}
	_, _ = fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() {
	_ = t.tw.Flush()
}

// pager renders "Page 2 of 5 (47 students)  1 [2] 3 4 5".
func pager(m pagination.Meta, noun string) string {
	if m.Total == 0 {
		return fmt.Sprintf("No %s found", noun)
	}
	links := make([]string, 0, pagination.DefaultMaxVisible)
	for _, p := range pagination.Window(m.Total, m.Page, m.Limit, pagination.DefaultMaxVisible) {
		if p == m.Page {
			links = append(links, "["+strconv.Itoa(p)+"]")
			continue
		}
		links = append(links, strconv.Itoa(p))
	}
	return fmt.Sprintf("Page %d of %d (%d %s)  %s", m.Page, m.Pages, m.Total, noun, strings.Join(links, " "))
}

// bar scales count against maxCount into a fixed-width bar.
func bar(count, maxCount int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	n := max(1, count*barWidth/maxCount)
	return strings.Repeat("#", n)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// label shows the expanded record through name, or the bare ID.
func label[T ref.Identifiable](r ref.Ref[T], name func(T) string) string {
	if v, ok := r.Value(); ok {
		if n := name(v); n != "" {
			return n
		}
	}
	return r.ID()
}
