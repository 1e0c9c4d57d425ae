package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"carbook/internal/cars/service"
	apperrors "carbook/pkg/errors"
	httputil "carbook/pkg/http"
	"carbook/pkg/logger"
)

type CarHandler struct {
	service service.CarService
	log     *logger.Logger
}

func NewCarHandler(service service.CarService, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log,
	}
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cars, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, cars); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Car ID must be an integer")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	car, err := h.service.Get(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, car); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/cars", h.List)
	router.GET("/api/cars/:id", h.Get)
}
