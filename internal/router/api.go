package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/storage"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type api[T any] struct {
	router *router
	entity string
	repo   storage.Repository[T]
}

func registerAPI[T any](mux *http.ServeMux, router *router, entity string, repo storage.Repository[T]) {
	a := &api[T]{router: router, entity: entity, repo: repo}
	base := "/api/" + entity

	mux.Handle("GET "+base+"/pagination", router.requireAuth(http.HandlerFunc(a.paginate)))
	mux.Handle("GET "+base+"/{id}", router.requireAuth(http.HandlerFunc(a.get)))
	mux.Handle("POST "+base, router.requireAuth(http.HandlerFunc(a.create)))
	mux.Handle("PUT "+base+"/{id}", router.requireAuth(http.HandlerFunc(a.update)))
	mux.Handle("DELETE "+base+"/{id}", router.requireAuth(http.HandlerFunc(a.delete)))
}

func (a *api[T]) paginate(w http.ResponseWriter, r *http.Request) {
	req := listquery.ParseRequest(r.URL.Query(), a.router.conf.Listing.MaxLimit)

	page, err := a.repo.Paginate(r.Context(), req)
	if err != nil {
		a.router.writeError(w, err)
		return
	}

	a.router.metrics.RecordListed(a.entity, len(page.Data))
	writeJSON(w, http.StatusOK, page)
}

func (a *api[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := a.repo.Get(r.Context(), id)
	if err != nil {
		a.router.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (a *api[T]) create(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeBody[T](w, r)
	if !ok {
		return
	}

	id, err := a.repo.Create(r.Context(), record)
	if err != nil {
		a.router.writeError(w, err)
		return
	}

	created, err := a.repo.Get(r.Context(), id)
	if err != nil {
		a.router.writeError(w, err)
		return
	}

	a.router.logger.Info("Record created", "entity", a.entity, "id", id)
	writeJSON(w, http.StatusCreated, created)
}

func (a *api[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, ok := decodeBody[T](w, r)
	if !ok {
		return
	}

	if err := a.repo.Update(r.Context(), id, record); err != nil {
		a.router.writeError(w, err)
		return
	}

	updated, err := a.repo.Get(r.Context(), id)
	if err != nil {
		a.router.writeError(w, err)
		return
	}

	a.router.logger.Info("Record updated", "entity", a.entity, "id", id)
	writeJSON(w, http.StatusOK, updated)
}

func (a *api[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := a.repo.Delete(r.Context(), id); err != nil {
		a.router.writeError(w, err)
		return
	}

	a.router.logger.Info("Record deleted", "entity", a.entity, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var record T

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return record, false
	}
	return record, true
}

// writeError maps storage errors to status codes: validation 400, missing 404, the rest 500.
func (router *router) writeError(w http.ResponseWriter, err error) {
	var validationErr *storage.ValidationError
	var notFoundErr *storage.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid record", Fields: validationErr.Fields})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})
	default:
		router.logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
