package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/api/middleware"
	"github.com/furnora-labs/furnora-backend/internal/orders"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
)

// userIDFromRequest resolves the authenticated user id seeded by the auth
// middleware.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func actorFromRequest(r *http.Request) (orders.Actor, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return orders.Actor{}, err
	}
	return orders.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, nil
}

// paginationParams reads limit and cursor query parameters.
func paginationParams(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return params, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
	}
	params.Limit = limit
	return params, nil
}
