package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/procurement/config"
	"example.com/procurement/internal/service"
	"example.com/procurement/internal/tracing"
)

var assertAnError = errors.New("database exploded")

func newTestRouter(procurement service.ProcurementService, notifications service.NotificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tracer, _ := tracing.NewTracer(config.TracingConfig{})
	if procurement != nil {
		NewProcurementHandler(procurement, tracer).RegisterRoutes(router)
	}
	if notifications != nil {
		NewNotificationHandler(notifications, tracer).RegisterRoutes(router)
	}
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleSubmitPurchaseRequest(t *testing.T) {
	t.Run("returns 201 with the new id", func(t *testing.T) {
		procurement := new(MockProcurementService)
		router := newTestRouter(procurement, nil)

		id := uuid.New()
		procurement.On("SubmitPurchaseRequest", mock.Anything, mock.AnythingOfType("*service.SubmitPurchaseRequestRequest")).Return(id, nil)

		recorder := performJSON(t, router, http.MethodPost, "/prs", gin.H{
			"employee_id": uuid.New().String(),
			"manager_id":  uuid.New().String(),
			"lines":       []gin.H{{"sku": "A1", "name": "Widget", "qty": 5, "uom": "pcs"}},
		})

		require.Equal(t, http.StatusCreated, recorder.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Equal(t, id.String(), response["id"])
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		router := newTestRouter(new(MockProcurementService), nil)

		req := httptest.NewRequest(http.MethodPost, "/prs", bytes.NewReader([]byte("{not json")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		procurement := new(MockProcurementService)
		router := newTestRouter(procurement, nil)

		procurement.On("SubmitPurchaseRequest", mock.Anything, mock.Anything).
			Return(uuid.Nil, service.NewValidationError("invalid employee_id"))

		recorder := performJSON(t, router, http.MethodPost, "/prs", gin.H{"employee_id": "x"})
		require.Equal(t, http.StatusBadRequest, recorder.Code)
		require.Contains(t, recorder.Body.String(), "invalid employee_id")
	})
}

func TestHandleDecidePurchaseRequestErrorMapping(t *testing.T) {
	prID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found maps to 404", service.NewNotFoundError("purchase request not found"), http.StatusNotFound},
		{"wrong manager maps to 403", service.NewAuthorizationError("only the assigned manager can decide this request"), http.StatusForbidden},
		{"already decided maps to 400", service.NewConflictError("purchase request already rejected"), http.StatusBadRequest},
		{"unknown errors map to 500", assertAnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			procurement := new(MockProcurementService)
			router := newTestRouter(procurement, nil)

			procurement.On("DecidePurchaseRequest", mock.Anything, mock.MatchedBy(func(req *service.DecisionRequest) bool {
				return req.PRID == prID.String()
			})).Return(tt.err)

			recorder := performJSON(t, router, http.MethodPost, "/prs/"+prID.String()+"/decision", gin.H{
				"manager_id": uuid.New().String(),
				"approve":    true,
			})
			require.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusInternalServerError {
				require.Contains(t, recorder.Body.String(), "internal server error")
				require.NotContains(t, recorder.Body.String(), assertAnError.Error())
			}
		})
	}

	t.Run("success returns ok", func(t *testing.T) {
		procurement := new(MockProcurementService)
		router := newTestRouter(procurement, nil)

		procurement.On("DecidePurchaseRequest", mock.Anything, mock.Anything).Return(nil)

		recorder := performJSON(t, router, http.MethodPost, "/prs/"+prID.String()+"/decision", gin.H{
			"manager_id": uuid.New().String(),
			"approve":    false,
		})
		require.Equal(t, http.StatusOK, recorder.Code)
		require.JSONEq(t, `{"ok":true}`, recorder.Body.String())
	})
}

func TestHandleCreateGoodsReceipt(t *testing.T) {
	procurement := new(MockProcurementService)
	router := newTestRouter(procurement, nil)

	id := uuid.New()
	procurement.On("CreateGoodsReceipt", mock.Anything, mock.MatchedBy(func(req *service.CreateGoodsReceiptRequest) bool {
		// The transport never sets a source; that is reserved for the worker
		return req.Source == ""
	})).Return(id, nil)

	recorder := performJSON(t, router, http.MethodPost, "/grs", gin.H{
		"po_id": uuid.New().String(),
		"lines": []gin.H{{"sku": "A1", "name": "Widget", "qty_received": 4, "uom": "pcs"}},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	require.Contains(t, recorder.Body.String(), id.String())
}

func TestHandleMarkNotificationRead(t *testing.T) {
	notifications := new(MockNotificationService)
	router := newTestRouter(nil, notifications)

	id := uuid.New()
	notifications.On("MarkRead", mock.Anything, id.String()).Return(nil)

	recorder := performJSON(t, router, http.MethodPost, "/notifications/"+id.String()+"/read", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"ok":true}`, recorder.Body.String())
	notifications.AssertExpectations(t)
}
