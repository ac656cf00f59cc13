package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chordist/chordist-backend/internal/http/response"
	"github.com/chordist/chordist-backend/internal/requestdata"
	"github.com/chordist/chordist-backend/internal/services"
)

type SheetHandler struct {
	sheets services.SheetService
}

func NewSheetHandler(sheets services.SheetService) *SheetHandler {
	return &SheetHandler{sheets: sheets}
}

// GET /api/sheets
func (h *SheetHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sheets, err := h.sheets.ListForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sheets": sheets})
}

// GET /api/search/sheets?q=
func (h *SheetHandler) Search(c *gin.Context) {
	sheets, err := h.sheets.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sheets": sheets})
}

// GET /api/sheets/:id
func (h *SheetHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sheet_id", err)
		return
	}
	sheet, err := h.sheets.Get(c.Request.Context(), rd.UserID, sheetID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sheet": sheet})
}

// PATCH /api/sheets/:id
func (h *SheetHandler) Rename(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sheet_id", err)
		return
	}
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sheet, err := h.sheets.Rename(c.Request.Context(), rd.UserID, sheetID, req.Title)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sheet": sheet})
}

// DELETE /api/sheets/:id
func (h *SheetHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sheetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_sheet_id", err)
		return
	}
	if err := h.sheets.Delete(c.Request.Context(), rd.UserID, sheetID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "deleted"})
}
