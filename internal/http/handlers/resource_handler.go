package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/clinicdesk/internal/http/response"
	"github.com/diagnosis/clinicdesk/internal/service"
	"github.com/diagnosis/clinicdesk/internal/store"
)

// ResourceService is the CRUD surface a ResourceHandler serves.
type ResourceService[T any, I any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) (T, error)
}

// ResourceHandler exposes one record collection over HTTP.
type ResourceHandler[T store.Record, I service.Input[T], P service.Patch[T]] struct {
	svc ResourceService[T, I, P]
}

func NewResourceHandler[T store.Record, I service.Input[T], P service.Patch[T]](svc ResourceService[T, I, P]) *ResourceHandler[T, I, P] {
	return &ResourceHandler[T, I, P]{svc: svc}
}

func (h *ResourceHandler[T, I, P]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *ResourceHandler[T, I, P]) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if records == nil {
		records = []T{}
	}
	response.WriteJSON(w, http.StatusOK, records)
}

func (h *ResourceHandler[T, I, P]) create(w http.ResponseWriter, r *http.Request) {
	var in I
	if !decode(w, r, &in) {
		return
	}
	rec, err := h.svc.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, I, P]) update(w http.ResponseWriter, r *http.Request) {
	var patch P
	if !decode(w, r, &patch) {
		return
	}
	rec, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, I, P]) delete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rec)
}
