package students

import (
	"github.com/janisto/campus-admin/internal/platform/pagination"
	studentsvc "github.com/janisto/campus-admin/internal/service/students"
)

// ListInput for GET /students
type ListInput struct {
	pagination.Params
}

// IDInput for the routes addressing one student
type IDInput struct {
	ID string `path:"id" doc:"Student ID"`
}

// CreateInput for POST /students
type CreateInput struct {
	Body studentsvc.Input
}

// UpdateInput for PUT /students/{id}
type UpdateInput struct {
	ID   string `path:"id" doc:"Student ID"`
	Body studentsvc.Input
}
