package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/intake"
	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

// orderSearchFields are the attributes the orders table can search by.
var orderSearchFields = []string{"_id", "customerName"}

type OrdersHandler struct {
	api  *tailor.Client
	sess *session.Session
}

func NewOrdersHandler(api *tailor.Client, sess *session.Session) *OrdersHandler {
	return &OrdersHandler{api: api, sess: sess}
}

func (h *OrdersHandler) List(c *gin.Context) {
	params, ok := listParams(c, orderSearchFields)
	if !ok {
		return
	}
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown order status"})
		return
	}
	page, err := h.api.ListOrders(params, status)
	if err != nil {
		failUpstream(c, h.sess, err, "failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	order, err := h.api.GetOrder(c.Param("id"))
	if err != nil {
		failUpstream(c, h.sess, err, "failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// createOrderForm mirrors the intake draft: numeric fields arrive as the raw
// input text and are validated authoritatively by the workflow.
type createOrderForm struct {
	CustomerID string        `json:"customerId"`
	AmountDue  string        `json:"amountDue"`
	Items      []intake.Item `json:"items"`
}

// workflowGateway narrows the tailor client to what the intake workflow
// consumes.
type workflowGateway struct {
	api *tailor.Client
}

func (g workflowGateway) SearchCustomers(field, query string, limit int) ([]models.Customer, error) {
	page, err := g.api.ListCustomers(tailor.ListParams{
		RowsPerPage: limit,
		SearchField: field,
		SearchQuery: query,
	})
	if err != nil {
		return nil, err
	}
	return page.Customers, nil
}

func (g workflowGateway) CreateOrder(req models.CreateOrderRequest) (*models.Order, error) {
	return g.api.CreateOrder(req)
}

// Create runs the order intake workflow over the submitted draft: the
// referenced customer is fetched and attached, then validation accumulates
// every violation before anything reaches the create-order endpoint.
func (h *OrdersHandler) Create(c *gin.Context) {
	var form createOrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order payload", Message: err.Error()})
		return
	}

	w := intake.New(workflowGateway{api: h.api}, func() { h.sess.Refresh() }, nil)
	if form.CustomerID != "" {
		customer, err := h.api.GetCustomer(form.CustomerID)
		if err != nil {
			failUpstream(c, h.sess, err, "failed to fetch customer")
			return
		}
		w.SelectCustomer(*customer)
	}
	w.SetAmountDue(form.AmountDue)
	for i, item := range form.Items {
		if i > 0 {
			w.AddItem()
		}
		if err := w.SetItemType(i, item.Type); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order payload", Message: err.Error()})
			return
		}
		_ = w.SetItemCount(i, item.Count)
		_ = w.SetItemFabric(i, item.Fabric)
		_ = w.SetItemNotes(i, item.Notes)
	}

	order, err := w.Submit()
	if err != nil {
		var invalid *intake.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors":      invalid.Violations,
				"fieldErrors": invalid.Fields,
			})
			return
		}
		failUpstream(c, h.sess, err, "failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Update forwards a partial order update (status moves, amount corrections,
// item patches).
func (h *OrdersHandler) Update(c *gin.Context) {
	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order patch", Message: err.Error()})
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown order status"})
		return
	}
	order, err := h.api.UpdateOrder(c.Param("id"), patch)
	if err != nil {
		failUpstream(c, h.sess, err, "failed to update order")
		return
	}
	h.sess.Refresh()
	c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) Delete(c *gin.Context) {
	if err := h.api.DeleteOrder(c.Param("id")); err != nil {
		failUpstream(c, h.sess, err, "failed to delete order")
		return
	}
	h.sess.Refresh()
	c.Status(http.StatusNoContent)
}
