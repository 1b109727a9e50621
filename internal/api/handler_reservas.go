package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labreserva-backend/internal/booking"
	"labreserva-backend/internal/metrics"
	"labreserva-backend/internal/model"
	"labreserva-backend/internal/mw"
	"labreserva-backend/internal/store"
)

// GetLabReservations handles GET /api/laboratorio/{id}.
func (h *Handler) GetLabReservations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.store.LaboratoryByID(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	reservas, err := h.store.ReservationsByLaboratory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reservas)
}

// GetLabReservationsByDate handles GET /api/laboratorio/{id}/reservas?data=YYYY-MM-DD.
// A reservation matches when the date falls inside its calendar span,
// inclusive on both ends.
func (h *Handler) GetLabReservationsByDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dataParam := c.Query("data")
	if dataParam == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "data não fornecida"})
		return
	}
	day, err := time.Parse("2006-01-02", dataParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "data em formato inválido, use YYYY-MM-DD"})
		return
	}

	lab, err := h.store.LaboratoryByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	reservas, err := h.store.ReservationsByLaboratory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	filtered := make([]model.Reservation, 0, len(reservas))
	for _, r := range reservas {
		if booking.CoversDate(r, day) {
			filtered = append(filtered, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"laboratorio": lab,
		"reservas":    filtered,
	})
}

type availabilityRequest struct {
	LaboratorioID int64  `json:"laboratorio_id" binding:"required"`
	DataInicio    string `json:"data_inicio" binding:"required"`
	DataFim       string `json:"data_fim" binding:"required"`
	Quantidade    int    `json:"quantidade"` // weeks to project, defaults to 3
}

// CheckAvailability handles POST /api/verificar_disponibilidade, projecting
// the requested slot over the next weeks.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campos obrigatórios faltando"})
		return
	}

	if _, err := h.store.LaboratoryByID(c.Request.Context(), req.LaboratorioID); err != nil {
		h.fail(c, err)
		return
	}

	existing, err := h.store.ReservationsByLaboratory(c.Request.Context(), req.LaboratorioID)
	if err != nil {
		h.fail(c, err)
		return
	}

	avail, err := booking.ProjectAvailability(existing, req.DataInicio, req.DataFim, req.Quantidade)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, avail)
}

// myReservationsGroup is one laboratory's slice of the caller's reservations.
type myReservationsGroup struct {
	ID       int64               `json:"id"`
	Nome     string              `json:"nome"`
	Reservas []model.Reservation `json:"reservas"`
}

// MyReservations handles GET /api/minhas_reservas: the caller's reservations
// grouped by laboratory, each group ascending by start time.
func (h *Handler) MyReservations(c *gin.Context) {
	callerID := mw.CallerID(c)

	reservas, err := h.store.ReservationsByUser(c.Request.Context(), callerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	labs, err := h.store.Laboratories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	nameByID := make(map[int64]string, len(labs))
	for _, lab := range labs {
		nameByID[lab.ID] = lab.Nome
	}

	grouped := make(map[int64]*myReservationsGroup)
	order := []int64{}
	for _, r := range reservas {
		g, ok := grouped[r.LaboratorioID]
		if !ok {
			g = &myReservationsGroup{
				ID:       r.LaboratorioID,
				Nome:     nameByID[r.LaboratorioID],
				Reservas: []model.Reservation{},
			}
			grouped[r.LaboratorioID] = g
			order = append(order, r.LaboratorioID)
		}
		g.Reservas = append(g.Reservas, r)
	}

	response := make([]myReservationsGroup, 0, len(order))
	for _, labID := range order {
		booking.SortByInicio(grouped[labID].Reservas)
		response = append(response, *grouped[labID])
	}

	c.JSON(http.StatusOK, response)
}

type addReservationRequest struct {
	DataInicio           string   `json:"data_inicio" binding:"required"`
	DataFim              string   `json:"data_fim" binding:"required"`
	ProfessorResponsavel string   `json:"professor_responsavel" binding:"required"`
	NumEstudantes        int      `json:"num_estudantes"`
	RepetirHorario       bool     `json:"repetir_horario"`
	Anotacoes            string   `json:"anotacoes"`
	LaboratorioID        int64    `json:"laboratorio_id" binding:"required"`
	DatasRepetir         []string `json:"datas_repetir"`
}

// AddReservations handles POST /api/add_reserva. The body is an array of
// reservation requests; the whole request persists atomically or not at all.
func (h *Handler) AddReservations(c *gin.Context) {
	var reqs []addReservationRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if len(reqs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "nenhuma reserva fornecida"})
		return
	}

	callerID := mw.CallerID(c)
	inputs := make([]store.CreateReservationInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, store.CreateReservationInput{
			LaboratorioID:        req.LaboratorioID,
			UsuarioID:            callerID,
			DataInicio:           req.DataInicio,
			DataFim:              req.DataFim,
			ProfessorResponsavel: req.ProfessorResponsavel,
			NumEstudantes:        req.NumEstudantes,
			RepetirHorario:       req.RepetirHorario,
			Anotacoes:            req.Anotacoes,
			DatasRepetir:         req.DatasRepetir,
		})
	}

	created, err := h.store.CreateReservations(c.Request.Context(), inputs)
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.AddReservationsCreated(len(created))
	c.JSON(http.StatusCreated, gin.H{
		"message":  "reservas criadas com sucesso",
		"reservas": created,
	})
}

type reservationPatchRequest struct {
	DataInicio           *string `json:"data_inicio"`
	DataFim              *string `json:"data_fim"`
	ProfessorResponsavel *string `json:"professor_responsavel"`
	NumEstudantes        *int    `json:"num_estudantes"`
	Anotacoes            *string `json:"anotacoes"`
}

// UpdateReservation handles PUT /api/reserva/{id}. Only the owner may edit;
// the patched interval is not re-checked for conflicts.
func (h *Handler) UpdateReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reservationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	// Supplied timestamps still have to honor the wire layout.
	for _, stamp := range []*string{req.DataInicio, req.DataFim} {
		if stamp == nil {
			continue
		}
		if _, err := booking.ParseStamp(*stamp); err != nil {
			h.fail(c, err)
			return
		}
	}

	patch := store.ReservationPatch{
		DataInicio:           req.DataInicio,
		DataFim:              req.DataFim,
		ProfessorResponsavel: req.ProfessorResponsavel,
		NumEstudantes:        req.NumEstudantes,
		Anotacoes:            req.Anotacoes,
	}
	if err := h.store.UpdateReservation(c.Request.Context(), mw.CallerID(c), id, patch); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reserva atualizada com sucesso"})
}

// DeleteReservation handles DELETE /api/reserva/{id}. Only the owner may
// delete.
func (h *Handler) DeleteReservation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteReservation(c.Request.Context(), mw.CallerID(c), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reserva excluída com sucesso"})
}
