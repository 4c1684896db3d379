package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/pagination"
	"socialchat/internal/services"
)

type NotificationHandler struct {
	service services.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log}
}

// @Summary  Уведомления
// @Description  Новые сверху
// @Tags     Notifications
// @Security BearerAuth
// @Param    page     query  int  false  "Страница"
// @Param    perpage  query  int  false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	p := pageParams(c)
	items, total, err := h.service.List(c.Request.Context(), getUserID(c), p)
	if err != nil {
		writeError(c, h.log, "[notifications][list] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(items, total, p))
}

// @Summary  Количество непрочитанных
// @Tags     Notifications
// @Security BearerAuth
// @Success  200  {object}  map[string]int64
// @Router   /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.service.UnreadCount(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, h.log, "[notifications][unread] failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary  Уведомление
// @Tags     Notifications
// @Security BearerAuth
// @Param    id  path  int  true  "ID уведомления"
// @Success  200  {object}  models.Notification
// @Failure  404  {object}  map[string]string
// @Router   /notifications/{id} [get]
func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.service.Get(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[notifications][get] failed", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// @Summary  Отметить прочитанным
// @Tags     Notifications
// @Security BearerAuth
// @Param    id  path  int  true  "ID уведомления"
// @Success  204
// @Router   /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[notifications][read] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Прочитать все
// @Tags     Notifications
// @Security BearerAuth
// @Success  200  {object}  map[string]int64
// @Router   /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.service.MarkAllRead(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, h.log, "[notifications][read-all] failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// @Summary  Удалить уведомление
// @Tags     Notifications
// @Security BearerAuth
// @Param    id  path  int  true  "ID уведомления"
// @Success  204
// @Router   /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[notifications][delete] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Удалить все уведомления
// @Tags     Notifications
// @Security BearerAuth
// @Success  200  {object}  map[string]int64
// @Router   /notifications [delete]
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	n, err := h.service.DeleteAll(c.Request.Context(), getUserID(c))
	if err != nil {
		writeError(c, h.log, "[notifications][delete-all] failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
