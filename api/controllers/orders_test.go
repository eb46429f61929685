package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/api/middleware"
	"github.com/furnora-labs/furnora-backend/internal/orders"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
)

type stubOrderService struct {
	dto  *orders.OrderDTO
	list *orders.OrderList
	err  error

	lastPay     orders.PayInput
	lastUpdate  orders.UpdateOrderInput
	lastFilters orders.OrderFilters
	lastActor   orders.Actor
	cancelled   []uuid.UUID
	deleted     []uuid.UUID
	csv         string
	checkouts   int
}

func (s *stubOrderService) Checkout(ctx context.Context, userID uuid.UUID, input orders.CheckoutInput) (*orders.OrderDTO, error) {
	s.checkouts++
	return s.dto, s.err
}

func (s *stubOrderService) Pay(ctx context.Context, actor orders.Actor, orderID uuid.UUID, input orders.PayInput) (*orders.OrderDTO, error) {
	s.lastActor = actor
	s.lastPay = input
	return s.dto, s.err
}

func (s *stubOrderService) Cancel(ctx context.Context, actor orders.Actor, orderID uuid.UUID) (*orders.OrderDTO, error) {
	s.cancelled = append(s.cancelled, orderID)
	return s.dto, s.err
}

func (s *stubOrderService) GetByID(ctx context.Context, actor orders.Actor, orderID uuid.UUID) (*orders.OrderDTO, error) {
	s.lastActor = actor
	return s.dto, s.err
}

func (s *stubOrderService) List(ctx context.Context, actor orders.Actor, filters orders.OrderFilters, params pagination.Params) (*orders.OrderList, error) {
	s.lastActor = actor
	s.lastFilters = filters
	return s.list, s.err
}

func (s *stubOrderService) Update(ctx context.Context, orderID uuid.UUID, input orders.UpdateOrderInput) (*orders.OrderDTO, error) {
	s.lastUpdate = input
	return s.dto, s.err
}

func (s *stubOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	s.deleted = append(s.deleted, orderID)
	return s.err
}

func (s *stubOrderService) ExportCSV(ctx context.Context, w io.Writer, filters orders.OrderFilters) error {
	s.lastFilters = filters
	_, err := io.WriteString(w, s.csv)
	if err != nil {
		return err
	}
	return s.err
}

func customerRequest(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleCustomer))
	return req.WithContext(ctx)
}

func requestWithOrderID(req *http.Request, orderID string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

const checkoutBody = `{
	"shipping_info": {
		"name": "Ana Ruiz",
		"address": "12 Elm St",
		"city": "Portland",
		"state": "OR",
		"zip": "97201",
		"phone": "555-0104",
		"email": "ana@example.com"
	},
	"card": {"brand": "visa", "last4": "4242"}
}`

func TestCheckoutSuccess(t *testing.T) {
	svc := &stubOrderService{dto: &orders.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusPending, TotalCents: 89900}}
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	req = customerRequest(req, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected status: %s", envelope.Data.Status)
	}
}

func TestCheckoutRejectsIncompleteShipping(t *testing.T) {
	handler := Checkout(&stubOrderService{}, nil)

	body := `{"shipping_info":{"name":"Ana Ruiz"},"card":{"brand":"visa","last4":"4242"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = customerRequest(req, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutRejectsRawCardNumber(t *testing.T) {
	svc := &stubOrderService{}
	handler := Checkout(svc, nil)

	// A full card number must never reach the service; the decoder rejects
	// fields the payload does not declare.
	body := `{
		"shipping_info": {
			"name": "Ana Ruiz",
			"address": "12 Elm St",
			"city": "Portland",
			"state": "OR",
			"zip": "97201",
			"phone": "555-0104",
			"email": "ana@example.com"
		},
		"card": {"brand": "visa", "last4": "4242", "number": "4111111111111111"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = customerRequest(req, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.checkouts != 0 {
		t.Fatalf("checkout reached the service %d times", svc.checkouts)
	}
}

func TestOrderPayForwardsIdempotencyKey(t *testing.T) {
	svc := &stubOrderService{dto: &orders.OrderDTO{Status: enums.OrderStatusPaid}}
	handler := OrderPay(svc, nil)

	orderID := uuid.New()
	body := `{"source_id":"cnon:card-nonce"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/pay", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "pay-attempt-1")
	req = customerRequest(req, uuid.New())
	req = requestWithOrderID(req, orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastPay.SourceID != "cnon:card-nonce" {
		t.Fatalf("source id not forwarded: %+v", svc.lastPay)
	}
	if svc.lastPay.IdempotencyKey != "pay-attempt-1" {
		t.Fatalf("idempotency key not forwarded: %q", svc.lastPay.IdempotencyKey)
	}
}

func TestOrderPayAllowsEmptyBody(t *testing.T) {
	svc := &stubOrderService{dto: &orders.OrderDTO{Status: enums.OrderStatusPaid}}
	handler := OrderPay(svc, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/pay", nil)
	req = customerRequest(req, uuid.New())
	req = requestWithOrderID(req, orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastPay.SourceID != "" {
		t.Fatalf("expected empty source id, got %q", svc.lastPay.SourceID)
	}
}

func TestOrdersListParsesFilters(t *testing.T) {
	svc := &stubOrderService{list: &orders.OrderList{Orders: []orders.OrderDTO{}}}
	handler := OrdersList(svc, nil)

	userID := uuid.New()
	target := "/api/v1/orders?status=paid&from=2026-01-01&to=2026-02-01T00:00:00Z"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = customerRequest(req, userID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastFilters.Status == nil || *svc.lastFilters.Status != enums.OrderStatusPaid {
		t.Fatalf("status filter not forwarded: %+v", svc.lastFilters.Status)
	}
	if svc.lastFilters.From == nil || svc.lastFilters.From.Year() != 2026 {
		t.Fatal("from filter not forwarded")
	}
	if svc.lastActor.UserID != userID || svc.lastActor.IsAdmin() {
		t.Fatalf("unexpected actor: %+v", svc.lastActor)
	}
}

func TestOrdersListRejectsUnknownStatus(t *testing.T) {
	handler := OrdersList(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=shredded", nil)
	req = customerRequest(req, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderUpdateForwardsPatch(t *testing.T) {
	svc := &stubOrderService{dto: &orders.OrderDTO{Status: enums.OrderStatusShipped}}
	handler := AdminOrderUpdate(svc, nil)

	orderID := uuid.New()
	body := `{"status":"shipped"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String(), strings.NewReader(body))
	req = requestWithOrderID(req, orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUpdate.Status != enums.OrderStatusShipped {
		t.Fatalf("status not forwarded: %+v", svc.lastUpdate)
	}
}

func TestAdminOrderUpdateStateConflict(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed")}
	handler := AdminOrderUpdate(svc, nil)

	orderID := uuid.New()
	body := `{"status":"pending"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String(), strings.NewReader(body))
	req = requestWithOrderID(req, orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAdminOrdersExportSetsHeaders(t *testing.T) {
	svc := &stubOrderService{csv: "order_id,status\n"}
	handler := AdminOrdersExport(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/export?status=paid", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if !strings.Contains(resp.Body.String(), "order_id,status") {
		t.Fatalf("csv body not written: %q", resp.Body.String())
	}
	if svc.lastFilters.Status == nil || *svc.lastFilters.Status != enums.OrderStatusPaid {
		t.Fatal("export filters not forwarded")
	}
}
