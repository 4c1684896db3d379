package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/services"
)

type OfficeHandler struct {
	service services.OfficeService
	log     *zap.Logger
}

func NewOfficeHandler(service services.OfficeService, log *zap.Logger) *OfficeHandler {
	return &OfficeHandler{service: service, log: log}
}

type createOfficeRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Code     string `json:"code" binding:"required,max=64"`
	ParentID *uint  `json:"parent_id"`
}

// @Summary  Создать офис (admin)
// @Tags     Offices
// @Security BearerAuth
// @Param    body  body  createOfficeRequest  true  "Офис"
// @Success  201  {object}  models.Office
// @Router   /offices [post]
func (h *OfficeHandler) Create(c *gin.Context) {
	var req createOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o, err := h.service.Create(c.Request.Context(), services.CreateOfficeInput{Name: req.Name, Code: req.Code, ParentID: req.ParentID})
	if err != nil {
		writeError(c, h.log, "[offices][create] failed", err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OfficeHandler) tree(op string, fn func(ctx context.Context, id uint) ([]models.Office, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		offices, err := fn(c.Request.Context(), id)
		if err != nil {
			writeError(c, h.log, op, err)
			return
		}
		if offices == nil {
			offices = []models.Office{}
		}
		c.JSON(http.StatusOK, offices)
	}
}

// @Summary  Дочерние офисы
// @Tags     Offices
// @Security BearerAuth
// @Param    id  path  int  true  "ID офиса"
// @Success  200  {array}  models.Office
// @Router   /offices/{id}/children [get]
func (h *OfficeHandler) Children(c *gin.Context) {
	h.tree("[offices][children] failed", h.service.Children)(c)
}

// @Summary  Поддерево офиса
// @Description  Обход в ширину, сам офис не включается
// @Tags     Offices
// @Security BearerAuth
// @Param    id  path  int  true  "ID офиса"
// @Success  200  {array}  models.Office
// @Router   /offices/{id}/subtree [get]
func (h *OfficeHandler) Subtree(c *gin.Context) {
	h.tree("[offices][subtree] failed", h.service.Subtree)(c)
}

// @Summary  Путь от корня
// @Tags     Offices
// @Security BearerAuth
// @Param    id  path  int  true  "ID офиса"
// @Success  200  {array}  models.Office
// @Router   /offices/{id}/ancestors [get]
func (h *OfficeHandler) Ancestors(c *gin.Context) {
	h.tree("[offices][ancestors] failed", h.service.Ancestors)(c)
}
