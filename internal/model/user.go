package model

import "time"

// User roles. The original deployment only ever distinguishes the two.
const (
	TipoAdmin     = "admin"
	TipoProfessor = "professor"
)

// User represents an account that can authenticate and own reservations.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:100;not null" json:"nome"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Senha     string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized
	Tipo      string    `gorm:"size:20;not null" json:"tipo"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
