package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labreserva-backend/internal/model"
	"labreserva-backend/internal/mw"
	"labreserva-backend/internal/store"
)

// GetLaboratories handles GET /api/laboratorios.
func (h *Handler) GetLaboratories(c *gin.Context) {
	labs, err := h.store.Laboratories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, labs)
}

type laboratoryRequest struct {
	Nome  string `json:"nome" binding:"required"`
	Local string `json:"local" binding:"required"`
}

// AddLaboratory handles POST /api/add_laboratorio (admin only).
func (h *Handler) AddLaboratory(c *gin.Context) {
	var req laboratoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campos obrigatórios faltando"})
		return
	}

	lab := model.Laboratory{Nome: req.Nome, Local: req.Local}
	if err := h.store.CreateLaboratory(c.Request.Context(), &lab); err != nil {
		h.fail(c, err)
		return
	}

	mw.Bust(h.cache)
	c.JSON(http.StatusCreated, gin.H{"message": "laboratório criado com sucesso", "id": lab.ID})
}

type laboratoryPatchRequest struct {
	Nome  *string `json:"nome"`
	Local *string `json:"local"`
}

// UpdateLaboratory handles PUT /api/laboratorio/{id} (admin only).
func (h *Handler) UpdateLaboratory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req laboratoryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	patch := store.LaboratoryPatch{Nome: req.Nome, Local: req.Local}
	if err := h.store.UpdateLaboratory(c.Request.Context(), id, patch); err != nil {
		h.fail(c, err)
		return
	}

	mw.Bust(h.cache)
	c.JSON(http.StatusOK, gin.H{"message": "laboratório atualizado com sucesso"})
}

// DeleteLaboratory handles DELETE /api/laboratorio/{id} (admin only).
// Deleting a laboratory cascades to its reservations.
func (h *Handler) DeleteLaboratory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteLaboratory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	mw.Bust(h.cache)
	c.JSON(http.StatusOK, gin.H{"message": "laboratório excluído com sucesso"})
}

// pathID parses the {id} path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, false
	}
	return id, true
}
