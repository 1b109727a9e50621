package model

import "time"

// TimeLayout is the wire and storage format for reservation timestamps.
// All interval comparisons parse under this exact layout.
const TimeLayout = "2006-01-02T15:04"

// Reservation is a time-bounded booking of a laboratory.
// DataInicio/DataFim are stored as TimeLayout strings, matching the
// JSON contract; DataFim is strictly after DataInicio.
type Reservation struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	DataInicio           string    `gorm:"size:50;not null" json:"data_inicio"`
	DataFim              string    `gorm:"size:50;not null" json:"data_fim"`
	ProfessorResponsavel string    `gorm:"size:100;not null" json:"professor_responsavel"`
	NumEstudantes        int       `gorm:"not null" json:"num_estudantes"`
	RepetirHorario       bool      `gorm:"default:false" json:"repetir_horario"` // recurrence template flag
	Anotacoes            string    `gorm:"type:text" json:"anotacoes"`
	LaboratorioID        int64     `gorm:"index;not null" json:"laboratorio_id"`
	UsuarioID            int64     `gorm:"index;not null" json:"usuario_id"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}
