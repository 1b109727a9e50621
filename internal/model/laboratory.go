package model

import "time"

// Laboratory is a bookable room.
type Laboratory struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:100;not null" json:"nome"`
	Local     string    `gorm:"size:100;not null" json:"local"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Reservas []Reservation `gorm:"foreignKey:LaboratorioID" json:"-"`
}
