package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/http/response"
	"github.com/chordist/chordist-backend/internal/services"
)

type PostHandler struct {
	posts services.PostService
}

func NewPostHandler(posts services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// GET /api/posts?limit=
func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	posts, err := h.posts.List(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"posts": posts})
}

// GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	detail, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, detail)
}
