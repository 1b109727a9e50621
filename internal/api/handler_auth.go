package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labreserva-backend/internal/auth"
	"labreserva-backend/internal/metrics"
	"labreserva-backend/internal/model"
	"labreserva-backend/internal/mw"
)

type loginRequest struct {
	Email string `json:"email" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// Login handles POST /api/login, exchanging credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campos obrigatórios faltando"})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.Senha, req.Senha) {
		metrics.IncLogin("failed")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Tipo)
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.IncLogin("ok")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"tipo":  user.Tipo,
		"nome":  user.Nome,
		"email": user.Email,
	})
}

type createUserRequest struct {
	Nome  string `json:"nome" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
	Tipo  string `json:"tipo"`
}

// CreateUser handles POST /api/usuarios (admin only).
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campos obrigatórios faltando"})
		return
	}

	if req.Tipo == "" {
		req.Tipo = model.TipoProfessor
	}
	if req.Tipo != model.TipoAdmin && req.Tipo != model.TipoProfessor {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "tipo de usuário inválido"})
		return
	}

	hash, err := auth.HashPassword(req.Senha)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := model.User{Nome: req.Nome, Email: req.Email, Senha: hash, Tipo: req.Tipo}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "usuário criado com sucesso", "id": user.ID})
}

type changePasswordRequest struct {
	SenhaAtual string `json:"senha_atual" binding:"required"`
	SenhaNova  string `json:"senha_nova" binding:"required"`
}

// ChangePassword handles PUT /api/atualizar_senha for the calling user.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "campos obrigatórios faltando"})
		return
	}

	callerID := mw.CallerID(c)
	user, err := h.store.UserByID(c.Request.Context(), callerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !auth.CheckPassword(user.Senha, req.SenhaAtual) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "senha atual incorreta"})
		return
	}

	hash, err := auth.HashPassword(req.SenhaNova)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.UpdateUserSenha(c.Request.Context(), callerID, hash); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "senha atualizada com sucesso"})
}
