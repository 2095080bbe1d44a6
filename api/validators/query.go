package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePagination reads the limit and cursor query parameters.
func ParsePagination(r *http.Request) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// ParseUUIDParam reads a chi URL parameter as a UUID.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed id").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// ParseStatusQuery reads an optional status filter.
func ParseStatusQuery(r *http.Request) (*enums.RequestStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseRequestStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").WithDetails(map[string]any{"status": raw})
	}
	return &status, nil
}
