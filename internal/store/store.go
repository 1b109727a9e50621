package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labreserva-backend/internal/booking"
	"labreserva-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *model.User) error
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UserByID(ctx context.Context, id int64) (model.User, error)
	UpdateUserSenha(ctx context.Context, id int64, senhaHash string) error

	// Laboratories
	CreateLaboratory(ctx context.Context, lab *model.Laboratory) error
	Laboratories(ctx context.Context) ([]model.Laboratory, error)
	LaboratoryByID(ctx context.Context, id int64) (model.Laboratory, error)
	UpdateLaboratory(ctx context.Context, id int64, patch LaboratoryPatch) error
	DeleteLaboratory(ctx context.Context, id int64) error

	// Reservations
	CreateReservations(ctx context.Context, inputs []CreateReservationInput) ([]model.Reservation, error)
	ReservationsByLaboratory(ctx context.Context, labID int64) ([]model.Reservation, error)
	ReservationByID(ctx context.Context, id int64) (model.Reservation, error)
	ReservationsByUser(ctx context.Context, userID int64) ([]model.Reservation, error)
	UpdateReservation(ctx context.Context, callerID, id int64, patch ReservationPatch) error
	DeleteReservation(ctx context.Context, callerID, id int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

func (s *gormStore) UpdateUserSenha(ctx context.Context, id int64, senhaHash string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("senha", senhaHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Laboratories ---

func (s *gormStore) CreateLaboratory(ctx context.Context, lab *model.Laboratory) error {
	if err := s.db.WithContext(ctx).Create(lab).Error; err != nil {
		return fmt.Errorf("failed to create laboratory: %w", err)
	}
	return nil
}

func (s *gormStore) Laboratories(ctx context.Context) ([]model.Laboratory, error) {
	var labs []model.Laboratory
	if err := s.db.WithContext(ctx).Order("id").Find(&labs).Error; err != nil {
		return nil, err
	}
	return labs, nil
}

func (s *gormStore) LaboratoryByID(ctx context.Context, id int64) (model.Laboratory, error) {
	var lab model.Laboratory
	err := s.db.WithContext(ctx).First(&lab, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Laboratory{}, ErrNotFound
	}
	return lab, err
}

func (s *gormStore) UpdateLaboratory(ctx context.Context, id int64, patch LaboratoryPatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lab model.Laboratory
		if err := tx.First(&lab, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if patch.Nome != nil {
			lab.Nome = *patch.Nome
		}
		if patch.Local != nil {
			lab.Local = *patch.Local
		}
		return tx.Save(&lab).Error
	})
}

// DeleteLaboratory removes a laboratory and cascades to its reservations.
func (s *gormStore) DeleteLaboratory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lab model.Laboratory
		if err := tx.First(&lab, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("laboratorio_id = ?", id).Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to cascade reservations for laboratory %d: %w", id, err)
		}
		if err := tx.Delete(&lab).Error; err != nil {
			return fmt.Errorf("failed to delete laboratory %d: %w", id, err)
		}
		return nil
	})
}

// --- Reservations ---

// CreateReservations validates and persists a reservation batch as a single
// commit: every entry's primary interval plus its recurrence instances, or
// nothing. The conflict checks and the inserts run in the same transaction,
// with each laboratory row locked, so two concurrent requests for the same
// laboratory serialize instead of both passing the check.
func (s *gormStore) CreateReservations(ctx context.Context, inputs []CreateReservationInput) ([]model.Reservation, error) {
	type parsedInput struct {
		in        CreateReservationInput
		intervals []booking.Interval // primary first
	}

	parsed := make([]parsedInput, 0, len(inputs))
	for _, in := range inputs {
		primary, err := booking.ParseInterval(in.DataInicio, in.DataFim)
		if err != nil {
			return nil, err
		}
		recurrences := []booking.Interval{}
		if in.RepetirHorario {
			recurrences, err = booking.RecurrenceIntervals(primary, in.DatasRepetir)
			if err != nil {
				return nil, err
			}
		}
		parsed = append(parsed, parsedInput{
			in:        in,
			intervals: append([]booking.Interval{primary}, recurrences...),
		})
	}

	var created []model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range parsed {
			// Lock the laboratory row so concurrent creations for the same
			// laboratory serialize. sqlite has no FOR UPDATE and serializes
			// writers on its own.
			labQuery := tx
			if tx.Dialector.Name() == "postgres" {
				labQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var lab model.Laboratory
			if err := labQuery.First(&lab, p.in.LaboratorioID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			// Rows inserted earlier in this transaction are visible here, so
			// entries in one batch also conflict-check against each other.
			var existing []model.Reservation
			if err := tx.Where("laboratorio_id = ?", p.in.LaboratorioID).Find(&existing).Error; err != nil {
				return fmt.Errorf("failed to load reservations for laboratory %d: %w", p.in.LaboratorioID, err)
			}

			for i, iv := range p.intervals {
				if hit, found := booking.FirstConflict(existing, iv); found {
					inicio, _ := booking.ParseStamp(hit.DataInicio)
					fim, _ := booking.ParseStamp(hit.DataFim)
					return &ConflictError{LaboratorioNome: lab.Nome, Inicio: inicio, Fim: fim}
				}

				reserva := model.Reservation{
					DataInicio:           iv.Inicio.Format(model.TimeLayout),
					DataFim:              iv.Fim.Format(model.TimeLayout),
					ProfessorResponsavel: p.in.ProfessorResponsavel,
					NumEstudantes:        p.in.NumEstudantes,
					// The flag marks the row that seeded a series, so a
					// one-off reservation never carries it.
					RepetirHorario: i == 0 && p.in.RepetirHorario,
					Anotacoes:            p.in.Anotacoes,
					LaboratorioID:        p.in.LaboratorioID,
					UsuarioID:            p.in.UsuarioID,
				}
				if err := tx.Create(&reserva).Error; err != nil {
					return fmt.Errorf("failed to create reservation: %w", err)
				}
				existing = append(existing, reserva)
				created = append(created, reserva)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *gormStore) ReservationsByLaboratory(ctx context.Context, labID int64) ([]model.Reservation, error) {
	var reservas []model.Reservation
	if err := s.db.WithContext(ctx).Where("laboratorio_id = ?", labID).Order("id").Find(&reservas).Error; err != nil {
		return nil, err
	}
	return reservas, nil
}

func (s *gormStore) ReservationByID(ctx context.Context, id int64) (model.Reservation, error) {
	var reserva model.Reservation
	err := s.db.WithContext(ctx).First(&reserva, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Reservation{}, ErrNotFound
	}
	return reserva, err
}

func (s *gormStore) ReservationsByUser(ctx context.Context, userID int64) ([]model.Reservation, error) {
	var reservas []model.Reservation
	if err := s.db.WithContext(ctx).Where("usuario_id = ?", userID).Find(&reservas).Error; err != nil {
		return nil, err
	}
	return reservas, nil
}

// UpdateReservation applies a field-wise patch. Ownership is the sole
// authorization check; an edited interval is not re-checked for conflicts.
func (s *gormStore) UpdateReservation(ctx context.Context, callerID, id int64, patch ReservationPatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reserva model.Reservation
		if err := tx.First(&reserva, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reserva.UsuarioID != callerID {
			return ErrForbidden
		}
		if patch.DataInicio != nil {
			reserva.DataInicio = *patch.DataInicio
		}
		if patch.DataFim != nil {
			reserva.DataFim = *patch.DataFim
		}
		if patch.ProfessorResponsavel != nil {
			reserva.ProfessorResponsavel = *patch.ProfessorResponsavel
		}
		if patch.NumEstudantes != nil {
			reserva.NumEstudantes = *patch.NumEstudantes
		}
		if patch.Anotacoes != nil {
			reserva.Anotacoes = *patch.Anotacoes
		}
		return tx.Save(&reserva).Error
	})
}

func (s *gormStore) DeleteReservation(ctx context.Context, callerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reserva model.Reservation
		if err := tx.First(&reserva, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reserva.UsuarioID != callerID {
			return ErrForbidden
		}
		return tx.Delete(&reserva).Error
	})
}
