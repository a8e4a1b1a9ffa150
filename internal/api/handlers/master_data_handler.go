package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

// MasterDataHandler handles master data HTTP requests
type MasterDataHandler struct {
	masterData service.MasterDataService
	tracer     tracing.Tracer
}

// NewMasterDataHandler creates a new master data handler
func NewMasterDataHandler(masterData service.MasterDataService, tracer tracing.Tracer) *MasterDataHandler {
	return &MasterDataHandler{
		masterData: masterData,
		tracer:     tracer,
	}
}

// HandleCreateUser creates a user
func (h *MasterDataHandler) HandleCreateUser(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-user")
	defer h.tracer.EndTransaction(txn)

	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.masterData.CreateUser(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListUsers lists active users, optionally filtered by role
func (h *MasterDataHandler) HandleListUsers(c *gin.Context) {
	users, err := h.masterData.ListUsers(c, c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// HandleCreateSupplier creates a supplier
func (h *MasterDataHandler) HandleCreateSupplier(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-supplier")
	defer h.tracer.EndTransaction(txn)

	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.masterData.CreateSupplier(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListSuppliers lists suppliers
func (h *MasterDataHandler) HandleListSuppliers(c *gin.Context) {
	suppliers, err := h.masterData.ListSuppliers(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// HandleCreateItem creates an item and lazily seeds its inventory record
func (h *MasterDataHandler) HandleCreateItem(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-item")
	defer h.tracer.EndTransaction(txn)

	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.masterData.CreateItem(c, &req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// HandleListItems lists items
func (h *MasterDataHandler) HandleListItems(c *gin.Context) {
	items, err := h.masterData.ListItems(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleListInventory lists on-hand inventory records
func (h *MasterDataHandler) HandleListInventory(c *gin.Context) {
	records, err := h.masterData.ListInventory(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// RegisterRoutes registers the handler's routes
func (h *MasterDataHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/users", h.HandleCreateUser)
	router.GET("/users", h.HandleListUsers)
	router.POST("/suppliers", h.HandleCreateSupplier)
	router.GET("/suppliers", h.HandleListSuppliers)
	router.POST("/items", h.HandleCreateItem)
	router.GET("/items", h.HandleListItems)
	router.GET("/inventory", h.HandleListInventory)
}
