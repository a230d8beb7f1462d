package course

import "github.com/uptrace/bun"

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          int    `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,type:varchar(100),notnull" json:"name"`
	Description string `bun:"description,type:text" json:"description"`
}

type CreateRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// UpdateInput carries only the fields present in the request; nil fields
// are left unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
}

func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Description == nil
}
