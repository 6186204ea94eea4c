package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/middleware"
	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/search"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

// failUpstream converts a gateway error into one localized response. An
// upstream 401 becomes an implicit logout; other upstream statuses pass
// through with the caller's message, and transport failures map to 502.
// Nothing here is fatal; the client keeps its form state and may retry.
func failUpstream(c *gin.Context, sess *session.Session, err error, msg string) {
	if sess.HandleAuthFailure(err) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "session expired"})
		return
	}

	slog.Error("upstream request failed",
		"requestId", c.GetString(middleware.RequestIDKey),
		"path", c.FullPath(),
		"error", err)

	var apiErr *tailor.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		c.JSON(apiErr.StatusCode, models.ErrorResponse{Error: msg, Message: apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: msg})
}

// listParams validates the shared pagination/search inputs against the
// entity's searchable fields and shifts the 0-based page to the API's
// 1-based pages. An empty searchField falls back to the entity default.
func listParams(c *gin.Context, fields []string) (tailor.ListParams, bool) {
	page := 0
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "page must be a non-negative integer"})
			return tailor.ListParams{}, false
		}
		page = parsed
	}

	rowsPerPage := search.PageSizes[0]
	if raw := c.Query("rowsPerPage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !search.AllowedPageSize(parsed) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "rowsPerPage must be one of 5, 10, 25"})
			return tailor.ListParams{}, false
		}
		rowsPerPage = parsed
	}

	searchField := c.Query("searchField")
	if searchField == "" {
		searchField = fields[0]
	}
	if !search.AllowedField(fields, searchField) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown search field " + strconv.Quote(searchField)})
		return tailor.ListParams{}, false
	}

	return tailor.ListParams{
		Page:        page + 1,
		RowsPerPage: rowsPerPage,
		SearchField: searchField,
		SearchQuery: c.Query("searchQuery"),
	}, true
}
