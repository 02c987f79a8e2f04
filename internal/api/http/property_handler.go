package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/service"
)

type PropertyHandler struct {
	properties service.PropertyService
}

func NewPropertyHandler(properties service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var p domain.Property
	if !decodeBody(w, r, &p) {
		return
	}
	if err := h.properties.Create(r.Context(), principal, &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var p domain.Property
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = mux.Vars(r)["id"]
	if err := h.properties.Update(r.Context(), principal, &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type propertyListResponse struct {
	Properties []domain.Property `json:"properties"`
	Total      int32             `json:"total"`
	Page       int32             `json:"page"`
	PageSize   int32             `json:"page_size"`
}

func (h *PropertyHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), 20)

	properties, total, err := h.properties.ListAvailable(r.Context(), q.Get("city"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyListResponse{
		Properties: properties,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	properties, err := h.properties.ListMine(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

func queryInt32(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		return def
	}
	return int32(n)
}
