package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/pagination"
	"socialchat/internal/services"
)

type PostHandler struct {
	service services.PostService
	log     *zap.Logger
}

func NewPostHandler(service services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{service: service, log: log}
}

type createPostRequest struct {
	Content     string              `json:"content"`
	Attachments []attachmentRequest `json:"attachments" binding:"dive"`
}

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type reactionRequest struct {
	Type string `json:"type" binding:"omitempty,max=32"`
}

// @Summary  Опубликовать пост в группе
// @Tags     Posts
// @Security BearerAuth
// @Param    id    path  int                true  "ID группы"
// @Param    body  body  createPostRequest  true  "Пост"
// @Success  201  {object}  models.Post
// @Failure  403  {object}  map[string]string
// @Router   /groups/{id}/posts [post]
func (h *PostHandler) CreateInGroup(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := services.CreatePostInput{GroupID: &groupID, Content: req.Content}
	for _, a := range req.Attachments {
		in.Attachments = append(in.Attachments, services.AttachmentInput{FileName: a.FileName, URL: a.URL, MimeType: a.MimeType})
	}
	post, err := h.service.Create(c.Request.Context(), getUserID(c), in)
	if err != nil {
		writeError(c, h.log, "[posts][create] failed", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// @Summary  Посты группы
// @Tags     Posts
// @Security BearerAuth
// @Param    id       path   int  true   "ID группы"
// @Param    page     query  int  false  "Страница"
// @Param    perpage  query  int  false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /groups/{id}/posts [get]
func (h *PostHandler) ListInGroup(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}
	p := pageParams(c)
	posts, total, err := h.service.ListGroupPosts(c.Request.Context(), getUserID(c), groupID, p)
	if err != nil {
		writeError(c, h.log, "[posts][list] failed", err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(posts, total, p))
}

// @Summary  Пост
// @Tags     Posts
// @Security BearerAuth
// @Param    id  path  int  true  "ID поста"
// @Success  200  {object}  models.Post
// @Router   /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := h.service.Get(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[posts][get] failed", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary  Удалить пост
// @Description  Автор или админ группы
// @Tags     Posts
// @Security BearerAuth
// @Param    id  path  int  true  "ID поста"
// @Success  204
// @Router   /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getUserID(c), id); err != nil {
		writeError(c, h.log, "[posts][delete] failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Комментарии к посту
// @Description  Плоский список по id; дерево строится по parent_id
// @Tags     Posts
// @Security BearerAuth
// @Param    id  path  int  true  "ID поста"
// @Success  200  {array}  models.Comment
// @Router   /posts/{id}/comments [get]
func (h *PostHandler) Comments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := h.service.Comments(c.Request.Context(), getUserID(c), id)
	if err != nil {
		writeError(c, h.log, "[posts][comments] failed", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// @Summary  Комментировать пост
// @Tags     Posts
// @Security BearerAuth
// @Param    id    path  int             true  "ID поста"
// @Param    body  body  commentRequest  true  "Комментарий"
// @Success  201  {object}  models.Comment
// @Router   /posts/{id}/comments [post]
func (h *PostHandler) Comment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	comment, err := h.service.Comment(c.Request.Context(), getUserID(c), id, req.ParentID, req.Content)
	if err != nil {
		writeError(c, h.log, "[posts][comment] failed", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// bindReaction tolerates an empty body; the default reaction is used then.
func bindReaction(c *gin.Context) (string, bool) {
	var req reactionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return "", false
		}
	}
	return req.Type, true
}

// @Summary  Реакция на пост
// @Description  Повторная реакция того же типа снимает её
// @Tags     Posts
// @Security BearerAuth
// @Param    id    path  int              true   "ID поста"
// @Param    body  body  reactionRequest  false  "Тип, по умолчанию like"
// @Success  200  {object}  services.ReactionResult
// @Router   /posts/{id}/reactions [post]
func (h *PostHandler) ReactToPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	typ, ok := bindReaction(c)
	if !ok {
		return
	}
	res, err := h.service.ReactToPost(c.Request.Context(), getUserID(c), id, typ)
	if err != nil {
		writeError(c, h.log, "[posts][react] failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Реакция на комментарий
// @Tags     Posts
// @Security BearerAuth
// @Param    id    path  int              true   "ID комментария"
// @Param    body  body  reactionRequest  false  "Тип, по умолчанию like"
// @Success  200  {object}  services.ReactionResult
// @Router   /comments/{id}/reactions [post]
func (h *PostHandler) ReactToComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	typ, ok := bindReaction(c)
	if !ok {
		return
	}
	res, err := h.service.ReactToComment(c.Request.Context(), getUserID(c), id, typ)
	if err != nil {
		writeError(c, h.log, "[comments][react] failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
