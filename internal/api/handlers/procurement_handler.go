package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/procurement/internal/repository"
	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

// ProcurementHandler handles the purchase workflow HTTP requests
type ProcurementHandler struct {
	procurement service.ProcurementService
	tracer      tracing.Tracer
}

// NewProcurementHandler creates a new procurement handler
func NewProcurementHandler(procurement service.ProcurementService, tracer tracing.Tracer) *ProcurementHandler {
	return &ProcurementHandler{
		procurement: procurement,
		tracer:      tracer,
	}
}

// HandleSubmitPurchaseRequest submits a new purchase request
func (h *ProcurementHandler) HandleSubmitPurchaseRequest(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-submit-purchase-request")
	defer h.tracer.EndTransaction(txn)

	var req service.SubmitPurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.procurement.SubmitPurchaseRequest(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListPurchaseRequests lists purchase requests, newest first
func (h *ProcurementHandler) HandleListPurchaseRequests(c *gin.Context) {
	filter := repository.PurchaseRequestFilter{
		Status:     c.Query("status"),
		ManagerID:  c.Query("manager_id"),
		EmployeeID: c.Query("employee_id"),
	}

	prs, err := h.procurement.ListPurchaseRequests(c, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prs)
}

// HandleDecidePurchaseRequest applies a manager's approve/reject decision
func (h *ProcurementHandler) HandleDecidePurchaseRequest(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-decide-purchase-request")
	defer h.tracer.EndTransaction(txn)

	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.PRID = c.Param("id")

	if err := h.procurement.DecidePurchaseRequest(c, &req); err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleCreatePurchaseOrder creates a purchase order from an approved request
func (h *ProcurementHandler) HandleCreatePurchaseOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-purchase-order")
	defer h.tracer.EndTransaction(txn)

	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.procurement.CreatePurchaseOrder(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListPurchaseOrders lists purchase orders, newest first
func (h *ProcurementHandler) HandleListPurchaseOrders(c *gin.Context) {
	pos, err := h.procurement.ListPurchaseOrders(c, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// HandleCreateGoodsReceipt posts a goods receipt against a purchase order
func (h *ProcurementHandler) HandleCreateGoodsReceipt(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-goods-receipt")
	defer h.tracer.EndTransaction(txn)

	var req service.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.procurement.CreateGoodsReceipt(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListGoodsReceipts lists goods receipts, newest first
func (h *ProcurementHandler) HandleListGoodsReceipts(c *gin.Context) {
	grs, err := h.procurement.ListGoodsReceipts(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grs)
}

// RegisterRoutes registers the handler's routes
func (h *ProcurementHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/prs", h.HandleSubmitPurchaseRequest)
	router.GET("/prs", h.HandleListPurchaseRequests)
	router.POST("/prs/:id/decision", h.HandleDecidePurchaseRequest)
	router.POST("/pos", h.HandleCreatePurchaseOrder)
	router.GET("/pos", h.HandleListPurchaseOrders)
	router.POST("/grs", h.HandleCreateGoodsReceipt)
	router.GET("/grs", h.HandleListGoodsReceipts)
}
