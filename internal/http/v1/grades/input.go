package grades

import gradesvc "github.com/janisto/campus-admin/internal/service/grades"

// IDInput for DELETE /grades/{id}
type IDInput struct {
	ID string `path:"id" doc:"Grade ID"`
}

// AddInput for POST /grades
type AddInput struct {
	Body gradesvc.Input
}

// UpdateInput for PUT /grades/{id}
type UpdateInput struct {
	ID   string `path:"id" doc:"Grade ID"`
	Body gradesvc.Input
}

// StudentInput for the per-student listings
type StudentInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
}

// CourseInput for GET /grades/course/{courseId}
type CourseInput struct {
	CourseID string `path:"courseId" doc:"Course ID"`
}
