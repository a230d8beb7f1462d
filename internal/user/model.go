package user

import "github.com/uptrace/bun"

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,type:varchar(20),unique,notnull" json:"username"`
	Password string `bun:"password,type:varchar(80),notnull" json:"-"` // bcrypt digest, never plaintext
	IsAdmin  bool   `bun:"is_admin,notnull,default:false" json:"isAdmin"`
}

// RegisterRequest is the form body of POST /register
type RegisterRequest struct {
	Username string `form:"username" validate:"required,max=10"`
	Password string `form:"password" validate:"required"`
	IsAdmin  string `form:"is_admin"`
}

// LoginRequest is the form body of POST /login
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	IsAdmin bool   `json:"is_admin"`
}
