package courses

import coursesvc "github.com/janisto/campus-admin/internal/service/courses"

// IDInput for the routes addressing one course
type IDInput struct {
	ID string `path:"id" doc:"Course ID"`
}

// CreateInput for POST /courses
type CreateInput struct {
	Body coursesvc.Input
}

// UpdateInput for PUT /courses/{id}
type UpdateInput struct {
	ID   string `path:"id" doc:"Course ID"`
	Body coursesvc.Input
}

// EnrollmentInput for POST /courses/{id}/enroll and /unenroll
type EnrollmentInput struct {
	ID   string `path:"id" doc:"Course ID"`
	Body coursesvc.EnrollmentInput
}
