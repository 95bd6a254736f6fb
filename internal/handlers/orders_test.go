package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/karvanashop/karvana/internal/models"
)

func TestGetOrderByReference(t *testing.T) {
	t.Parallel()

	order := &models.Order{
		ID:        uuid.New(),
		Reference: "KV-20260901-123456",
		Status:    models.StatusAwaitingShipment,
	}
	h := newTestHandlers(t, testDeps{orders: &fakeOrderReader{order: order}})

	router := mux.NewRouter()
	router.HandleFunc("/api/orders/{id}", h.GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/KV-20260901-123456", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Reference != order.Reference {
		t.Errorf("Reference = %q", got.Reference)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})

	router := mux.NewRouter()
	router.HandleFunc("/api/orders/{id}", h.GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetOrderInvalidID(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, testDeps{})

	router := mux.NewRouter()
	router.HandleFunc("/api/orders/{id}", h.GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/not-an-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
