package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	// Identifier is a username or an email.
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Username     string `json:"username" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type sessionResponse struct {
	User   *models.User        `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

// @Summary      Регистрация
// @Description  Создаёт пользователя и сразу выдаёт токены
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Данные пользователя"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, pair, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(c, h.log, "[auth][register] failed", err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{User: user, Tokens: pair})
}

// @Summary      Вход в систему
// @Description  Аутентифицирует пользователя по username или email и возвращает токены
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      loginRequest  true  "Данные для входа"
// @Success      200    {object}  sessionResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, pair, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(c, h.log, "[auth][login] failed", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: user, Tokens: pair})
}

// @Summary      Обновление токенов
// @Description  Меняет refresh-токен на новую пару; старый refresh перестаёт работать
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "username и refresh-токен"
// @Success      200   {object}  services.TokenPair
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), req.Username, req.RefreshToken)
	if err != nil {
		writeError(c, h.log, "[auth][refresh] failed", err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Выход
// @Description  Отзывает все refresh-токены пользователя
// @Tags         Auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), getUserID(c)); err != nil {
		writeError(c, h.log, "[auth][logout] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
