package attendance

import attendancesvc "github.com/janisto/campus-admin/internal/service/attendance"

// ListInput for GET /attendance
type ListInput struct {
	Course  string `query:"course"  doc:"Course ID"`
	Date    string `query:"date"    doc:"Calendar day, YYYY-MM-DD"`
	Student string `query:"student" doc:"Student ID"`
}

// MarkInput for POST /attendance
type MarkInput struct {
	Body attendancesvc.MarkInput
}

// ReportInput for GET /attendance/report/{studentId}
type ReportInput struct {
	StudentID string `path:"studentId" doc:"Student ID"`
}
