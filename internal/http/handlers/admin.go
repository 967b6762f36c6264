package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// AdminBlockUser blocks the identity in the path.
func (a *App) AdminBlockUser(w http.ResponseWriter, r *http.Request) {
	target := domain.Identity(chi.URLParam(r, "identity"))
	if err := a.Users.BlockUser(a.caller(r), target); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"identity": target, "status": a.Users.StatusOf(target)})
}

// AdminUnblockUser unblocks the identity in the path.
func (a *App) AdminUnblockUser(w http.ResponseWriter, r *http.Request) {
	target := domain.Identity(chi.URLParam(r, "identity"))
	if err := a.Users.UnblockUser(a.caller(r), target); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"identity": target, "status": a.Users.StatusOf(target)})
}

// AdminPendingRequests lists unresolved benefactor requests in submission
// order; the last entry is the next one to be resolved.
func (a *App) AdminPendingRequests(w http.ResponseWriter, r *http.Request) {
	if a.caller(r) != a.Users.Admin() {
		a.domainError(w, domain.ErrNotAdmin)
		return
	}
	pending := a.Users.PendingRequests()
	items := make([]benefactorRequestDTO, len(pending))
	for i, req := range pending {
		items[i] = requestDTO(req)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// AdminPromoteRequest approves the most recently filed pending request.
func (a *App) AdminPromoteRequest(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.PromoteLatestRequest(a.caller(r)); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"result": "promoted"})
}

type declineRequestBody struct {
	Reason string `json:"reason"`
}

// AdminDeclineRequest declines the most recently filed pending request.
func (a *App) AdminDeclineRequest(w http.ResponseWriter, r *http.Request) {
	var body declineRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Users.DeclineLatestRequest(a.caller(r), body.Reason); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"result": "declined"})
}

// AdminJournal returns recent persisted platform events.
func (a *App) AdminJournal(w http.ResponseWriter, r *http.Request) {
	if a.caller(r) != a.Users.Admin() {
		a.domainError(w, domain.ErrNotAdmin)
		return
	}
	if a.Journal == nil {
		a.error(w, http.StatusServiceUnavailable, "journal_disabled", "event journal is not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	items, err := a.Journal.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("journal list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load journal")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
