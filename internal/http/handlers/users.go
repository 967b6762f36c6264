package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type benefactorRequestBody struct {
	Comment string `json:"comment"`
}

type benefactorRequestDTO struct {
	Sender        domain.Identity      `json:"sender"`
	Comment       string               `json:"comment"`
	Status        domain.RequestStatus `json:"status"`
	DeclineReason string               `json:"decline_reason,omitempty"`
}

func requestDTO(req domain.BenefactorRequest) benefactorRequestDTO {
	return benefactorRequestDTO{
		Sender:        req.Sender,
		Comment:       req.Comment,
		Status:        req.Status,
		DeclineReason: req.DeclineReason,
	}
}

// BenefactorRequestCreate files a promotion request for the caller.
func (a *App) BenefactorRequestCreate(w http.ResponseWriter, r *http.Request) {
	var body benefactorRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	caller := a.caller(r)
	if err := a.Users.RequestBenefactorStatus(caller, body.Comment); err != nil {
		a.domainError(w, err)
		return
	}
	req, _ := a.Users.LatestRequestOf(caller)
	a.json(w, http.StatusCreated, requestDTO(req))
}

// UserStatus reports the standing of any identity.
func (a *App) UserStatus(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity(chi.URLParam(r, "identity"))
	a.json(w, http.StatusOK, map[string]any{
		"identity": identity,
		"status":   a.Users.StatusOf(identity),
	})
}

// UserBenefactorRequest returns an identity's latest request decision record.
func (a *App) UserBenefactorRequest(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity(chi.URLParam(r, "identity"))
	req, ok := a.Users.LatestRequestOf(identity)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "no benefactor request on record")
		return
	}
	a.json(w, http.StatusOK, requestDTO(req))
}
