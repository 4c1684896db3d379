package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/services"
)

type GroupHandler struct {
	service services.GroupService
	log     *zap.Logger
}

func NewGroupHandler(service services.GroupService, log *zap.Logger) *GroupHandler {
	return &GroupHandler{service: service, log: log}
}

type createGroupRequest struct {
	Name             string   `json:"name" binding:"required,max=255"`
	Code             string   `json:"code" binding:"max=64"`
	Description      string   `json:"description"`
	AvatarURL        string   `json:"avatar_url" binding:"omitempty,url"`
	Privacy          int      `json:"privacy" binding:"oneof=0 1"`
	ConfigPost       int      `json:"config_post"`
	ConfigJoinMember int      `json:"config_join_member"`
	Members          []string `json:"members"`
}

type updateGroupRequest struct {
	Name             *string `json:"name" binding:"omitempty,max=255"`
	Description      *string `json:"description"`
	AvatarURL        *string `json:"avatar_url" binding:"omitempty,url"`
	Privacy          *int    `json:"privacy" binding:"omitempty,oneof=0 1"`
	ConfigPost       *int    `json:"config_post"`
	ConfigJoinMember *int    `json:"config_join_member"`
}

type membersRequest struct {
	Usernames []string `json:"usernames" binding:"required,min=1,dive,required"`
}

type editRoleRequest struct {
	Usernames []string `json:"usernames" binding:"required,min=1,dive,required"`
	Type      string   `json:"type" binding:"required,oneof=admin member"`
}

type createGroupResponse struct {
	Group   *models.Group         `json:"group"`
	Members *services.BatchResult `json:"members"`
}

// writeBatch answers 422 when every item of a non-empty batch failed.
func writeBatch(c *gin.Context, res *services.BatchResult) {
	status := http.StatusOK
	if res.AllFailed() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}

// @Summary  Создать группу
// @Description  Создатель становится админом; members добавляются по username
// @Tags     Groups
// @Security BearerAuth
// @Accept   json
// @Param    body  body  createGroupRequest  true  "Группа"
// @Success  201  {object}  createGroupResponse
// @Router   /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, res, err := h.service.Create(c.Request.Context(), getUserID(c), services.CreateGroupInput{
		Name:             req.Name,
		Code:             req.Code,
		Description:      req.Description,
		AvatarURL:        req.AvatarURL,
		Privacy:          req.Privacy,
		ConfigPost:       req.ConfigPost,
		ConfigJoinMember: req.ConfigJoinMember,
		Members:          req.Members,
	})
	if err != nil {
		writeError(c, h.log, "[groups][create] failed", err)
		return
	}
	c.JSON(http.StatusCreated, createGroupResponse{Group: g, Members: res})
}

// @Summary  Мои группы
// @Tags     Groups
// @Security BearerAuth
// @Param    page     query  int  false  "Страница"
// @Param    perpage  query  int  false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	p := pageParams(c)
	groups, total, err := h.service.ListForUser(c.Request.Context(), getUserID(c), p)
	if err != nil {
		writeError(c, h.log, "[groups][list] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(groups, total, p))
}

// @Summary  Группа с участниками
// @Tags     Groups
// @Security BearerAuth
// @Param    id  path  int  true  "ID группы"
// @Success  200  {object}  models.Group
// @Failure  403  {object}  map[string]string
// @Router   /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	g, err := h.service.Get(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[groups][get] failed", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary  Изменить группу (админ)
// @Tags     Groups
// @Security BearerAuth
// @Param    id    path  int                 true  "ID группы"
// @Param    body  body  updateGroupRequest  true  "Поля"
// @Success  200  {object}  models.Group
// @Router   /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.service.Update(c.Request.Context(), getUserID(c), id, services.UpdateGroupInput{
		Name:             req.Name,
		Description:      req.Description,
		AvatarURL:        req.AvatarURL,
		Privacy:          req.Privacy,
		ConfigPost:       req.ConfigPost,
		ConfigJoinMember: req.ConfigJoinMember,
	})
	if err != nil {
		writeError(c, h.log, "[groups][update] failed", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary  Удалить группу (админ)
// @Tags     Groups
// @Security BearerAuth
// @Param    id  path  int  true  "ID группы"
// @Success  204
// @Router   /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[groups][delete] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Добавить участников (админ)
// @Description  Частичный успех: 200 с перечнем ошибок; 422 если не прошёл никто
// @Tags     Groups
// @Security BearerAuth
// @Param    id    path  int             true  "ID группы"
// @Param    body  body  membersRequest  true  "username'ы"
// @Success  200  {object}  services.BatchResult
// @Failure  422  {object}  services.BatchResult
// @Router   /groups/{id}/members [post]
func (h *GroupHandler) AddMembers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req membersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.service.AddMembers(c.Request.Context(), getUserID(c), id, req.Usernames)
	if err != nil {
		writeError(c, h.log, "[groups][add-members] failed", err)
		return
	}
	writeBatch(c, res)
}

// @Summary  Удалить участников (админ)
// @Tags     Groups
// @Security BearerAuth
// @Param    id    path  int             true  "ID группы"
// @Param    body  body  membersRequest  true  "username'ы"
// @Success  200  {object}  services.BatchResult
// @Failure  422  {object}  services.BatchResult
// @Router   /groups/{id}/members [delete]
func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req membersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.service.RemoveMembers(c.Request.Context(), getUserID(c), id, req.Usernames)
	if err != nil {
		writeError(c, h.log, "[groups][remove-members] failed", err)
		return
	}
	writeBatch(c, res)
}

// @Summary  Сменить роль участников (админ)
// @Tags     Groups
// @Security BearerAuth
// @Param    id    path  int              true  "ID группы"
// @Param    body  body  editRoleRequest  true  "username'ы и роль"
// @Success  200  {object}  services.BatchResult
// @Failure  422  {object}  services.BatchResult
// @Router   /groups/{id}/members/role [put]
func (h *GroupHandler) EditRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req editRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.service.EditRole(c.Request.Context(), getUserID(c), id, req.Usernames, models.MembershipType(req.Type))
	if err != nil {
		writeError(c, h.log, "[groups][edit-role] failed", err)
		return
	}
	writeBatch(c, res)
}

// @Summary  Выйти из группы
// @Tags     Groups
// @Security BearerAuth
// @Param    id  path  int  true  "ID группы"
// @Success  204
// @Failure  409  {object}  map[string]string
// @Router   /groups/{id}/leave [post]
func (h *GroupHandler) Leave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Leave(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[groups][leave] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
