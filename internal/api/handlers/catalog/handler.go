package catalog

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/facumancuso/alessi-sub000/internal/api/handlers"
	"github.com/facumancuso/alessi-sub000/internal/api/middleware"
	"github.com/facumancuso/alessi-sub000/internal/service/catalog/models"
)

const msgInvalidRequestBody = "cuerpo de la solicitud inválido"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListServices GET /api/v1/services и GET /api/v1/public/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListServices(r.Context())
	if err != nil {
		handlers.Fail(w, h.logger, "GET /services", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// GetService GET /api/v1/services/{id}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resp, err := h.service.GetService(r.Context(), id)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /services/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// CreateService POST /api/v1/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CreateService(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /services", err)
		return
	}

	h.logger.Info("POST /services - Service created: id=%s, code=%s", resp.ID, resp.Code)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// UpdateService PATCH /api/v1/services/{id}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ServiceUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /services/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateService(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /services/{id}", err)
		return
	}

	h.logger.Info("PATCH /services/{id} - Service updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// DeleteService DELETE /api/v1/services/{id}
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteService(r.Context(), session, id); err != nil {
		handlers.Fail(w, h.logger, "DELETE /services/{id}", err)
		return
	}

	h.logger.Info("DELETE /services/{id} - Service deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts GET /api/v1/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListProducts(r.Context())
	if err != nil {
		handlers.Fail(w, h.logger, "GET /products", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// GetProduct GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	resp, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		handlers.Fail(w, h.logger, "GET /products/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// CreateProduct POST /api/v1/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /products - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CreateProduct(r.Context(), session, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "POST /products", err)
		return
	}

	h.logger.Info("POST /products - Product created: id=%s, code=%s", resp.ID, resp.Code)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// UpdateProduct PATCH /api/v1/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var req models.ProductUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /products/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateProduct(r.Context(), session, id, &req)
	if err != nil {
		handlers.Fail(w, h.logger, "PATCH /products/{id}", err)
		return
	}

	h.logger.Info("PATCH /products/{id} - Product updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// DeleteProduct DELETE /api/v1/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteProduct(r.Context(), session, id); err != nil {
		handlers.Fail(w, h.logger, "DELETE /products/{id}", err)
		return
	}

	h.logger.Info("DELETE /products/{id} - Product deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
