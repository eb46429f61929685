package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/internal/reviews"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
)

type stubReviewService struct {
	dto  *reviews.ReviewDTO
	list []reviews.ReviewDTO
	err  error

	lastCreate reviews.CreateReviewInput
}

func (s *stubReviewService) Create(ctx context.Context, userID uuid.UUID, input reviews.CreateReviewInput) (*reviews.ReviewDTO, error) {
	s.lastCreate = input
	return s.dto, s.err
}

func (s *stubReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]reviews.ReviewDTO, error) {
	return s.list, s.err
}

func TestReviewsListSuccess(t *testing.T) {
	svc := &stubReviewService{list: []reviews.ReviewDTO{{ID: uuid.New(), Rating: 5, Comment: "solid build"}}}
	handler := ReviewsList(svc, nil)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/reviews", nil)
	req = requestWithProductID(req, productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Reviews []reviews.ReviewDTO `json:"reviews"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Reviews) != 1 || envelope.Data.Reviews[0].Rating != 5 {
		t.Fatalf("unexpected reviews: %+v", envelope.Data.Reviews)
	}
}

func TestReviewCreateUsesPathProduct(t *testing.T) {
	svc := &stubReviewService{dto: &reviews.ReviewDTO{ID: uuid.New(), Rating: 4}}
	handler := ReviewCreate(svc, nil)

	productID := uuid.New()
	body := `{"rating":4,"comment":"comfortable"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", strings.NewReader(body))
	req = authenticated(req, uuid.New())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate.ProductID != productID {
		t.Fatalf("product id not taken from path: %+v", svc.lastCreate)
	}
	if svc.lastCreate.Rating != 4 {
		t.Fatalf("rating not forwarded: %d", svc.lastCreate.Rating)
	}
}

func TestReviewCreateDuplicateConflict(t *testing.T) {
	svc := &stubReviewService{err: pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")}
	handler := ReviewCreate(svc, nil)

	productID := uuid.New()
	body := `{"rating":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews", strings.NewReader(body))
	req = authenticated(req, uuid.New())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
