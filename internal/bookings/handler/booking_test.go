package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "carbook/pkg/errors"
	"carbook/pkg/logger"
	"carbook/pkg/model"
)

type mockBookingService struct {
	createFunc func(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error)
	listFunc   func(ctx context.Context) ([]*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req, identity)
	}
	return &model.BookingResult{ID: 1, EmailSent: false}, nil
}

func (m *mockBookingService) List(ctx context.Context) ([]*model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreate_Returns201WithResult(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error) {
			if req.CarID != 3 {
				t.Errorf("expected car_id 3, got %d", req.CarID)
			}
			return &model.BookingResult{ID: 12, EmailSent: true}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"car_id":3,"start_datetime":"2026-09-14 10:00:00","end_datetime":"2026-09-14 14:00:00","booked_by":"Dana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result model.BookingResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if result.ID != 12 || !result.EmailSent {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreate_MalformedJSON(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_ServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"conflict", apperrors.Conflict("already booked"), http.StatusConflict},
		{"not found", apperrors.NotFound("Car"), http.StatusNotFound},
		{"validation", apperrors.Validation("bad window", nil), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized("login required"), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(ctx context.Context, req *model.BookingRequest, identity model.Identity) (*model.BookingResult, error) {
					return nil, tc.err
				},
			}
			router := newTestRouter(svc)

			body := `{"car_id":1,"start_datetime":"2026-09-14 10:00:00","end_datetime":"2026-09-14 14:00:00","booked_by":"Dana"}`
			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestList_EmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
}
