package attendance

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/courses"
)

// Roster is the editable set of attendance marks for one course on one day,
// one entry per enrolled student in enrollment order.
//
// Selecting a different course or date rebuilds the roster from the course's
// enrollment list with every student present. Unsaved edits are discarded.
type Roster struct {
	mu      sync.Mutex
	course  string
	date    timeutil.Date
	entries []Entry
}

// NewRoster builds the roster for course on date.
func NewRoster(course courses.Course, date timeutil.Date) *Roster {
	r := &Roster{}
	r.Select(course, date)
	return r
}

// Select recomputes the roster for course and date.
func (r *Roster) Select(course courses.Course, date timeutil.Date) {
	ids := course.StudentIDs()
	entries := make([]Entry, 0, len(ids))
	for _, sid := range ids {
		entries = append(entries, Entry{
			Student: sid,
			Course:  course.ID,
			Status:  StatusPresent,
			Date:    date,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.course = course.ID
	r.date = date
	r.entries = entries
}

// SetStatus changes the mark for one student.
func (r *Roster) SetStatus(studentID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown attendance status %q", status)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].Student == studentID {
			r.entries[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("student %s is not on the roster", studentID)
}

// Entries returns a copy of the current marks.
func (r *Roster) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// Len returns the number of students on the roster.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Counts tallies the current marks by status.
func (r *Roster) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c Counts
	for _, e := range r.entries {
		c.Add(e.Status)
	}
	return c
}

// Submit sends the roster to svc. An empty roster is rejected without a call.
func (r *Roster) Submit(ctx context.Context, svc Service) ([]Record, error) {
	entries := r.Entries()
	if len(entries) == 0 {
		return nil, ErrEmptyRoster
	}
	return svc.Mark(ctx, entries)
}
