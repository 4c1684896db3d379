package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/realtime"
	"socialchat/internal/services"
)

type ChatHandler struct {
	service  services.ChatService
	registry *realtime.Registry
	upgrader *websocket.Upgrader
	clients  realtime.ClientConfig
	log      *zap.Logger
}

func NewChatHandler(
	service services.ChatService,
	registry *realtime.Registry,
	upgrader *websocket.Upgrader,
	clients realtime.ClientConfig,
	log *zap.Logger,
) *ChatHandler {
	return &ChatHandler{service: service, registry: registry, upgrader: upgrader, clients: clients, log: log}
}

type createChatGroupRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
	MemberIDs []uint `json:"member_ids"`
}

type attachmentRequest struct {
	FileName string `json:"file_name"`
	URL      string `json:"url" binding:"required,url"`
	MimeType string `json:"mime_type"`
}

type sendMessageRequest struct {
	ConversationType string              `json:"conversation_type" binding:"required,oneof=User ChatGroup"`
	ReceiverID       *uint               `json:"receiver_id"`
	ChatGroupID      *uint               `json:"chat_group_id"`
	Text             string              `json:"text"`
	Attachments      []attachmentRequest `json:"attachments" binding:"dive"`
}

// @Summary  Создать групповой чат
// @Tags     Chat
// @Security BearerAuth
// @Param    body  body  createChatGroupRequest  true  "Название и участники"
// @Success  201  {object}  models.ChatGroup
// @Router   /chat-groups [post]
func (h *ChatHandler) CreateChatGroup(c *gin.Context) {
	var req createChatGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cg, err := h.service.CreateChatGroup(c.Request.Context(), getUserID(c), req.Name, req.AvatarURL, req.MemberIDs)
	if err != nil {
		writeError(c, h.log, "[chat][create-group] failed", err)
		return
	}
	c.JSON(http.StatusCreated, cg)
}

// @Summary  Мои групповые чаты
// @Tags     Chat
// @Security BearerAuth
// @Success  200  {object}  map[string]interface{}
// @Router   /chat-groups [get]
func (h *ChatHandler) ListChatGroups(c *gin.Context) {
	p := pageParams(c)
	items, total, err := h.service.ListChatGroups(c.Request.Context(), getUserID(c), p)
	if err != nil {
		writeError(c, h.log, "[chat][list-groups] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(items, total, p))
}

// @Summary  Групповой чат
// @Tags     Chat
// @Security BearerAuth
// @Param    id  path  int  true  "ID чата"
// @Success  200  {object}  models.ChatGroup
// @Failure  403  {object}  map[string]string
// @Router   /chat-groups/{id} [get]
func (h *ChatHandler) GetChatGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cg, err := h.service.GetChatGroup(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[chat][get-group] failed", err)
		return
	}
	c.JSON(http.StatusOK, cg)
}

// @Summary  История группового чата
// @Description  Новые сверху
// @Tags     Chat
// @Security BearerAuth
// @Param    id       path   int  true   "ID чата"
// @Param    page     query  int  false  "Страница"
// @Param    perpage  query  int  false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /chat-groups/{id}/messages [get]
func (h *ChatHandler) GroupMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p := pageParams(c)
	msgs, total, err := h.service.GroupHistory(c.Request.Context(), getUserID(c), id, p)
	if err != nil {
		writeError(c, h.log, "[chat][group-history] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(msgs, total, p))
}

// @Summary  Личная переписка
// @Tags     Chat
// @Security BearerAuth
// @Param    userId   path   int  true   "Собеседник"
// @Param    page     query  int  false  "Страница"
// @Param    perpage  query  int  false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /messages/direct/{userId} [get]
func (h *ChatHandler) DirectMessages(c *gin.Context) {
	peerID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	p := pageParams(c)
	msgs, total, err := h.service.DirectHistory(c.Request.Context(), getUserID(c), peerID, p)
	if err != nil {
		writeError(c, h.log, "[chat][direct-history] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(msgs, total, p))
}

// @Summary  Отправить сообщение
// @Description  То же, что событие sent-message по websocket
// @Tags     Chat
// @Security BearerAuth
// @Param    body  body  sendMessageRequest  true  "Сообщение"
// @Success  201  {object}  models.Message
// @Router   /messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := services.SendInput{
		ConversationType: models.ConversationType(req.ConversationType),
		ReceiverID:       req.ReceiverID,
		ChatGroupID:      req.ChatGroupID,
		Text:             req.Text,
	}
	for _, a := range req.Attachments {
		in.Attachments = append(in.Attachments, services.AttachmentInput{FileName: a.FileName, URL: a.URL, MimeType: a.MimeType})
	}
	msg, err := h.service.Send(c.Request.Context(), getUserID(c), in)
	if err != nil {
		writeError(c, h.log, "[chat][send] failed", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// @Summary  Экспорт переписки в PDF
// @Tags     Chat
// @Security BearerAuth
// @Produce  application/pdf
// @Param    peer_id        query  int  false  "Собеседник"
// @Param    chat_group_id  query  int  false  "Групповой чат"
// @Success  200  {file}  file
// @Router   /messages/export [get]
func (h *ChatHandler) Export(c *gin.Context) {
	var q services.TranscriptQuery
	for key, dst := range map[string]*uint{"peer_id": &q.PeerID, "chat_group_id": &q.ChatGroupID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
			return
		}
		*dst = uint(n)
	}
	doc, err := h.service.Transcript(c.Request.Context(), getUserID(c), q)
	if err != nil {
		writeError(c, h.log, "[chat][export] failed", err)
		return
	}
	name := fmt.Sprintf("transcript-%s.pdf", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// @Summary  Websocket
// @Description  События sent-message / res-sent-message / notification / error. Токен можно передать в ?token=
// @Tags     Chat
// @Param    token  query  string  false  "Access token"
// @Success  101
// @Router   /ws [get]
func (h *ChatHandler) Stream(c *gin.Context) {
	userID := getUserID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.log.Warn("[ws] upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	realtime.NewClient(conn, userID, h.registry, h.service, h.clients, h.log).Run(c.Request.Context())
}
