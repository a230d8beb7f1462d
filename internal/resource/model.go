package resource

import (
	"io"

	"github.com/uptrace/bun"
)

type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Name     string `bun:"name,type:varchar(100),notnull" json:"name"`
	FilePath string `bun:"file_path,type:varchar(200),notnull" json:"file_path"`
	FileName string `bun:"file_name,type:varchar(200)" json:"file_name"`
	CourseID int    `bun:"course_id,notnull" json:"-"`

	Size int64 `bun:"-" json:"-"`
}

// AddInput is an upload as read from the request. Content is nil when no
// file part was sent.
type AddInput struct {
	CourseID int
	Name     string
	FileName string
	Content  io.Reader
}
