package store

// CreateReservationInput describes one reservation batch: a primary interval
// plus optional weekly recurrence dates sharing the same metadata.
type CreateReservationInput struct {
	LaboratorioID        int64
	UsuarioID            int64
	DataInicio           string
	DataFim              string
	ProfessorResponsavel string
	NumEstudantes        int
	RepetirHorario       bool
	Anotacoes            string
	DatasRepetir         []string
}

// ReservationPatch carries the fields of a reservation edit. Nil fields keep
// their stored value.
type ReservationPatch struct {
	DataInicio           *string
	DataFim              *string
	ProfessorResponsavel *string
	NumEstudantes        *int
	Anotacoes            *string
}

// LaboratoryPatch carries the fields of a laboratory edit. Nil fields keep
// their stored value.
type LaboratoryPatch struct {
	Nome  *string
	Local *string
}
