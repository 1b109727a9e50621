package store

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email já cadastrado")
	// ErrForbidden is returned when a caller mutates a reservation they do
	// not own.
	ErrForbidden = errors.New("sem permissão para alterar esta reserva")
)

// ConflictError reports an interval that overlaps an existing reservation,
// naming the laboratory and the conflicting window.
type ConflictError struct {
	LaboratorioNome string
	Inicio          time.Time
	Fim             time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("o laboratório %q já está reservado para o horário de %s às %s",
		e.LaboratorioNome, e.Inicio.Format("15:04"), e.Fim.Format("15:04"))
}
