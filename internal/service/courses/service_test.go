package courses

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestFilter(t *testing.T) {
	all := []Course{
		{ID: "1", Name: "Physics", Code: "PHY101"},
		{ID: "2", Name: "Chemistry", Code: "CHE101"},
		{ID: "3", Name: "Applied Physics", Code: "APH200"},
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"1", "2", "3"}},
		{"  ", []string{"1", "2", "3"}},
		{"physics", []string{"1", "3"}},
		{"che", []string{"2"}},
		{"101", []string{"1", "2"}},
		{"BIO", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.search, func(t *testing.T) {
			got := make([]string, 0)
			for _, c := range Filter(all, tc.search) {
				got = append(got, c.ID)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCourseDecodesMixedStudentRefs(t *testing.T) {
	body := `{"_id":"c1","name":"Physics","code":"PHY101","credits":3,
		"teacher":{"_id":"u1","name":"Dr. Ray"},
		"students":["s1",{"_id":"s2","firstName":"Ben","lastName":"Ito"}],"isActive":true}`

	var c Course
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.StudentIDs(); !slices.Equal(got, []string{"s1", "s2"}) {
		t.Fatalf("expected [s1 s2], got %v", got)
	}
	if !c.IsEnrolled("s2") || c.IsEnrolled("s3") {
		t.Fatal("unexpected enrollment check")
	}
	if c.Teacher.ID() != "u1" {
		t.Fatalf("expected teacher u1, got %q", c.Teacher.ID())
	}
}

func TestCourseOmitsEmptyTeacher(t *testing.T) {
	data, err := json.Marshal(Course{ID: "c1", Name: "Art", Code: "ART1", Students: []StudentRef{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	if _, ok := m["teacher"]; ok {
		t.Fatalf("expected teacher omitted, got %s", data)
	}
}
