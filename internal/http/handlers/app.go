package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/middleware"
)

// Journal is the read side of the persisted event journal.
type Journal interface {
	ListRecent(ctx context.Context, limit int) ([]repo.JournalEntry, error)
}

// App bundles the registries and infrastructure every handler needs.
type App struct {
	Users       *domain.UserRegistry
	Fundraisers *domain.FundraiserRegistry
	Journal     Journal // nil when no database is configured
	Logger      zerolog.Logger
}

func NewApp(users *domain.UserRegistry, fundraisers *domain.FundraiserRegistry, journal Journal, logger zerolog.Logger) *App {
	return &App{Users: users, Fundraisers: fundraisers, Journal: journal, Logger: logger}
}

func (a *App) caller(r *http.Request) domain.Identity {
	return domain.Identity(middleware.IdentityFromContext(r.Context()))
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": msg}})
}

// domainError maps a registry/fundraiser failure onto an HTTP response.
// Authorization failures are 403, validation failures 400, state failures
// 409, unknown resources 404.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAdmin):
		a.error(w, http.StatusForbidden, "not_admin", err.Error())
	case errors.Is(err, domain.ErrNotBeneficiary):
		a.error(w, http.StatusForbidden, "not_beneficiary", err.Error())
	case errors.Is(err, domain.ErrCallerBlocked):
		a.error(w, http.StatusForbidden, "caller_blocked", err.Error())
	case errors.Is(err, domain.ErrDonationTooLow):
		a.error(w, http.StatusBadRequest, "donation_too_low", err.Error())
	case errors.Is(err, domain.ErrReasonTooShort):
		a.error(w, http.StatusBadRequest, "reason_too_short", err.Error())
	case errors.Is(err, domain.ErrReasonTooLong):
		a.error(w, http.StatusBadRequest, "reason_too_long", err.Error())
	case errors.Is(err, domain.ErrRequestAlreadyPending):
		a.error(w, http.StatusConflict, "request_already_pending", err.Error())
	case errors.Is(err, domain.ErrEmptyQueue):
		a.error(w, http.StatusConflict, "empty_queue", err.Error())
	case errors.Is(err, domain.ErrCampaignExpired):
		a.error(w, http.StatusConflict, "campaign_expired", err.Error())
	case errors.Is(err, domain.ErrGoalNotMet):
		a.error(w, http.StatusConflict, "goal_not_met", err.Error())
	case errors.Is(err, domain.ErrDeadlineNotPassed):
		a.error(w, http.StatusConflict, "deadline_not_passed", err.Error())
	case errors.Is(err, domain.ErrFundraiserNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled domain error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
