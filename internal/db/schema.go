package db

import (
	"course-service/internal/course"
	"course-service/internal/enrollment"
	"course-service/internal/resource"
	"course-service/internal/user"
)

// Schema lists every table in creation order.
//
// enrollments.course_id deliberately has no foreign key: enrolling against a
// course id that does not exist is accepted and stored.
func Schema() []Table {
	return []Table{
		{Model: (*user.User)(nil)},
		{
			Model:   (*course.Course)(nil),
			Indexes: []Index{{Name: "idx_courses_name", Columns: []string{"name"}}},
		},
		{
			Model:      (*resource.Resource)(nil),
			ForeignKey: []string{`("course_id") REFERENCES "courses" ("id") ON DELETE CASCADE`},
			Indexes:    []Index{{Name: "idx_resources_course_id", Columns: []string{"course_id"}}},
		},
		{
			Model:      (*enrollment.Enrollment)(nil),
			ForeignKey: []string{`("user_id") REFERENCES "users" ("id")`},
			Indexes:    []Index{{Name: "idx_enrollments_course_id", Columns: []string{"course_id"}}},
		},
	}
}

// TableNames returns the table names of Schema, for truncation in tests.
func TableNames() []string {
	return []string{"enrollments", "resources", "courses", "users"}
}
