package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/services"
)

type ContactHandler struct {
	service services.ContactService
	log     *zap.Logger
}

func NewContactHandler(service services.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

type contactRequest struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

// @Summary  Заявка в контакты
// @Tags     Contacts
// @Security BearerAuth
// @Param    body  body  contactRequest  true  "Кому"
// @Success  201  {object}  models.Contact
// @Failure  409  {object}  map[string]string
// @Router   /contacts [post]
func (h *ContactHandler) Request(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.service.Request(c.Request.Context(), getUserID(c), req.ReceiverID)
	if err != nil {
		writeError(c, h.log, "[contacts][request] failed", err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

type contactLister func(c *gin.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error)

func (h *ContactHandler) list(op string, fn contactLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := pageParams(c)
		items, total, err := fn(c, getUserID(c), p)
		if err != nil {
			writeError(c, h.log, op, err)
			return
		}
		c.JSON(http.StatusOK, pagination.New(items, total, p))
	}
}

// @Summary  Все контакты
// @Tags     Contacts
// @Security BearerAuth
// @Success  200  {object}  map[string]interface{}
// @Router   /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	h.list("[contacts][list] failed", func(c *gin.Context, uid uint, p pagination.Params) ([]models.Contact, int64, error) {
		return h.service.List(c.Request.Context(), uid, p)
	})(c)
}

// @Summary  Входящие заявки
// @Tags     Contacts
// @Security BearerAuth
// @Success  200  {object}  map[string]interface{}
// @Router   /contacts/pending [get]
func (h *ContactHandler) Pending(c *gin.Context) {
	h.list("[contacts][pending] failed", func(c *gin.Context, uid uint, p pagination.Params) ([]models.Contact, int64, error) {
		return h.service.Pending(c.Request.Context(), uid, p)
	})(c)
}

// @Summary  Друзья
// @Tags     Contacts
// @Security BearerAuth
// @Success  200  {object}  map[string]interface{}
// @Router   /contacts/friends [get]
func (h *ContactHandler) Friends(c *gin.Context) {
	h.list("[contacts][friends] failed", func(c *gin.Context, uid uint, p pagination.Params) ([]models.Contact, int64, error) {
		return h.service.Friends(c.Request.Context(), uid, p)
	})(c)
}

// @Summary  Принять заявку
// @Tags     Contacts
// @Security BearerAuth
// @Param    id  path  int  true  "ID заявки"
// @Success  200  {object}  models.Contact
// @Router   /contacts/{id}/accept [post]
func (h *ContactHandler) Accept(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	contact, err := h.service.Accept(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[contacts][accept] failed", err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary  Отклонить заявку
// @Tags     Contacts
// @Security BearerAuth
// @Param    id  path  int  true  "ID заявки"
// @Success  204
// @Router   /contacts/{id}/reject [post]
func (h *ContactHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Reject(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[contacts][reject] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Удалить контакт
// @Tags     Contacts
// @Security BearerAuth
// @Param    id  path  int  true  "ID контакта"
// @Success  204
// @Router   /contacts/{id} [delete]
func (h *ContactHandler) Remove(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[contacts][remove] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
