package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/pagination"
	"socialchat/internal/services"
)

type UserHandler struct {
	service services.UserService
	log     *zap.Logger
}

func NewUserHandler(service services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

type updateProfileRequest struct {
	FullName    *string    `json:"full_name"`
	DisplayName *string    `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url" binding:"omitempty,url"`
	Address     *string    `json:"address"`
	Phone       *string    `json:"phone"`
	Sex         *string    `json:"sex" binding:"omitempty,oneof=male female other"`
	Birthday    *time.Time `json:"birthday"`
	NotifyEmail *bool      `json:"notify_email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type linkTelegramRequest struct {
	ChatID int64 `json:"chat_id" binding:"required"`
}

// @Summary  Список пользователей
// @Tags     Users
// @Security BearerAuth
// @Param    q        query  string  false  "Поиск по username, имени, email"
// @Param    page     query  int     false  "Страница"
// @Param    perpage  query  int     false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /users [get]
func (h *UserHandler) List(c *gin.Context) {
	p := pageParams(c)
	users, total, err := h.service.Search(c.Request.Context(), c.Query("q"), p)
	if err != nil {
		writeError(c, h.log, "[users][list] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(users, total, p))
}

// @Summary  Текущий пользователь
// @Tags     Users
// @Security BearerAuth
// @Success  200  {object}  models.User
// @Router   /users/current [get]
func (h *UserHandler) Current(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, h.log, "[users][current] failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary  Пользователь по ID
// @Tags     Users
// @Security BearerAuth
// @Param    id   path  int  true  "ID пользователя"
// @Success  200  {object}  models.User
// @Failure  404  {object}  map[string]string
// @Router   /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, "[users][get] failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary  Обновить свой профиль
// @Tags     Users
// @Security BearerAuth
// @Accept   json
// @Param    body  body  updateProfileRequest  true  "Поля для изменения"
// @Success  200  {object}  models.User
// @Router   /users/current [patch]
func (h *UserHandler) UpdateCurrent(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), getUserID(c), services.ProfileUpdate{
		FullName:    req.FullName,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Address:     req.Address,
		Phone:       req.Phone,
		Sex:         req.Sex,
		Birthday:    req.Birthday,
		NotifyEmail: req.NotifyEmail,
	})
	if err != nil {
		writeError(c, h.log, "[users][update] failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary  Сменить пароль
// @Description  Все refresh-токены пользователя отзываются
// @Tags     Users
// @Security BearerAuth
// @Accept   json
// @Param    body  body  changePasswordRequest  true  "Старый и новый пароль"
// @Success  204
// @Failure  401  {object}  map[string]string
// @Router   /users/current/password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), getUserID(c), req.OldPassword, req.NewPassword); err != nil {
		writeError(c, h.log, "[users][password] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Привязать Telegram
// @Tags     Users
// @Security BearerAuth
// @Accept   json
// @Param    body  body  linkTelegramRequest  true  "chat_id из бота"
// @Success  204
// @Router   /users/current/telegram [put]
func (h *UserHandler) LinkTelegram(c *gin.Context) {
	var req linkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.service.LinkTelegram(c.Request.Context(), getUserID(c), req.ChatID); err != nil {
		writeError(c, h.log, "[users][telegram] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
