package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/forms"
	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

// customerSearchFields are the attributes the customers table can search by.
var customerSearchFields = []string{"name", "phone", "residence"}

type CustomersHandler struct {
	api  *tailor.Client
	sess *session.Session
}

func NewCustomersHandler(api *tailor.Client, sess *session.Session) *CustomersHandler {
	return &CustomersHandler{api: api, sess: sess}
}

func (h *CustomersHandler) List(c *gin.Context) {
	params, ok := listParams(c, customerSearchFields)
	if !ok {
		return
	}
	page, err := h.api.ListCustomers(params)
	if err != nil {
		failUpstream(c, h.sess, err, "failed to fetch customers")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CustomersHandler) Get(c *gin.Context) {
	customer, err := h.api.GetCustomer(c.Param("id"))
	if err != nil {
		failUpstream(c, h.sess, err, "failed to fetch customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// customerForm is the add/edit submission; phone arrives in its
// comma-separated input form and measurement values pass through the
// numeric input filter before validation server-side.
type customerForm struct {
	Name         string                `json:"name"`
	Phone        string                `json:"phone"`
	Residence    string                `json:"residence"`
	Measurements models.MeasurementSet `json:"measurements"`
}

func (f customerForm) toPayload() models.CustomerPayload {
	draft := models.CustomerDraft{
		Name:         f.Name,
		Phone:        forms.SanitizePhone(f.Phone),
		Residence:    f.Residence,
		Measurements: sanitizeMeasurements(f.Measurements),
	}
	return draft.ToSubmission()
}

// sanitizeMeasurements applies the numeric field policy to every measurement
// value except the free-text notes.
func sanitizeMeasurements(set models.MeasurementSet) models.MeasurementSet {
	if set == nil {
		return nil
	}
	out := make(models.MeasurementSet, len(set))
	for kind, m := range set {
		cleaned := make(models.Measurements, len(m))
		for field, value := range m {
			if field == models.FieldNotes {
				cleaned[field] = value
				continue
			}
			cleaned[field] = forms.SanitizeMeasurement(value)
		}
		out[kind] = cleaned
	}
	return out
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var form customerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid customer payload", Message: err.Error()})
		return
	}
	customer, err := h.api.CreateCustomer(form.toPayload())
	if err != nil {
		failUpstream(c, h.sess, err, "failed to create customer")
		return
	}
	h.sess.Refresh()
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	var form customerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid customer payload", Message: err.Error()})
		return
	}
	customer, err := h.api.UpdateCustomer(c.Param("id"), form.toPayload())
	if err != nil {
		failUpstream(c, h.sess, err, "failed to update customer")
		return
	}
	h.sess.Refresh()
	c.JSON(http.StatusOK, customer)
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	if err := h.api.DeleteCustomer(c.Param("id")); err != nil {
		failUpstream(c, h.sess, err, "failed to delete customer")
		return
	}
	h.sess.Refresh()
	c.Status(http.StatusNoContent)
}

// Export streams the customer book as an Excel download. Super-admin only;
// the bytes pass through untouched.
func (h *CustomersHandler) Export(c *gin.Context) {
	data, err := h.api.ExportCustomers()
	if err != nil {
		failUpstream(c, h.sess, err, "failed to export customers")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="customers.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Import forwards an uploaded Excel workbook to the backend. Super-admin
// only.
func (h *CustomersHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "a file upload is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read uploaded file"})
		return
	}
	defer file.Close()

	if err := h.api.ImportCustomers(fileHeader.Filename, file); err != nil {
		failUpstream(c, h.sess, err, "failed to import customers")
		return
	}
	h.sess.Refresh()
	c.Status(http.StatusNoContent)
}
