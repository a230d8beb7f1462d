package enrollment

import "github.com/uptrace/bun"

// Enrollment links a user to a course id. The course is not required to
// exist and the same pair may be stored more than once.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:e"`

	ID       int `bun:"id,pk,autoincrement" json:"id"`
	UserID   int `bun:"user_id,notnull" json:"user_id"`
	CourseID int `bun:"course_id,notnull" json:"course_id"`
}

// EnrollRequest is the form body of POST /courses/:id/enroll
type EnrollRequest struct {
	Username string `form:"username"`
}
