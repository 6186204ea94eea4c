package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

// accountSearchFields are the attributes the users table can search by.
var accountSearchFields = []string{"name", "isSuperAdmin"}

type AccountsHandler struct {
	api  *tailor.Client
	sess *session.Session
}

func NewAccountsHandler(api *tailor.Client, sess *session.Session) *AccountsHandler {
	return &AccountsHandler{api: api, sess: sess}
}

func (h *AccountsHandler) List(c *gin.Context) {
	params, ok := listParams(c, accountSearchFields)
	if !ok {
		return
	}
	var isSuperAdmin *bool
	if raw := c.Query("isSuperAdmin"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "isSuperAdmin must be a boolean"})
			return
		}
		isSuperAdmin = &parsed
	}
	page, err := h.api.ListAccounts(params, isSuperAdmin)
	if err != nil {
		failUpstream(c, h.sess, err, "failed to fetch accounts")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AccountsHandler) Create(c *gin.Context) {
	var payload models.AccountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid account payload", Message: err.Error()})
		return
	}
	account, err := h.api.CreateAccount(payload)
	if err != nil {
		if isDuplicateUsername(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "username already exists"})
			return
		}
		failUpstream(c, h.sess, err, "failed to create account")
		return
	}
	h.sess.Refresh()
	c.JSON(http.StatusCreated, account)
}

func (h *AccountsHandler) Update(c *gin.Context) {
	var payload models.AccountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid account payload", Message: err.Error()})
		return
	}
	account, err := h.api.UpdateAccount(c.Param("id"), payload)
	if err != nil {
		if isDuplicateUsername(err) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "username already exists"})
			return
		}
		failUpstream(c, h.sess, err, "failed to update account")
		return
	}
	h.sess.Refresh()
	c.JSON(http.StatusOK, account)
}

// Delete removes an account. Deleting the account behind the current
// session logs the console out as well.
func (h *AccountsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.api.DeleteAccount(id); err != nil {
		failUpstream(c, h.sess, err, "failed to delete account")
		return
	}
	if user := h.sess.User(); user != nil && user.ID == id {
		h.sess.Logout()
	}
	h.sess.Refresh()
	c.Status(http.StatusNoContent)
}

// isDuplicateUsername maps the backend's duplicate-key code to the specific
// user-facing message.
func isDuplicateUsername(err error) bool {
	var apiErr *tailor.APIError
	return errors.As(err, &apiErr) && apiErr.IsDuplicateKey()
}
