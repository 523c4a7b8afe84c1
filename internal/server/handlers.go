package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nhle/workstatus/internal/actions"
	"github.com/nhle/workstatus/internal/service"
)

// maxActionBody bounds the JSON input accepted by POST /actions/{name}.
const maxActionBody = 64 << 10

type handlers struct {
	q        actions.Querier
	registry *actions.Registry
}

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler reports that the process is serving.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type actionsResponse struct {
	Actions []actions.Tool `json:"actions"`
}

func (h *handlers) listActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, actionsResponse{Actions: h.registry.Tools()})
}

func (h *handlers) runAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.registry.Execute(r.Context(), chi.URLParam(r, "name"), json.RawMessage(body))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) issue(w http.ResponseWriter, r *http.Request) {
	issue, err := h.q.IssueStatus(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (h *handlers) sprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := h.q.SprintStatus(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sprint)
}

func (h *handlers) pullRequest(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		WriteError(w, &badParam{name: "number", err: err})
		return
	}

	repo := chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
	pr, err := h.q.PRStatus(r.Context(), repo, number)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.q.SearchPRs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

// badParam is a malformed path or query parameter.
type badParam struct {
	name string
	err  error
}

func (e *badParam) Error() string {
	return "invalid " + e.name + ": " + e.err.Error()
}

func (e *badParam) Unwrap() []error {
	return []error{service.ErrInvalidInput, e.err}
}
