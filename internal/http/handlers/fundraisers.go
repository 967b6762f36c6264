package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
	"server/internal/middleware"
)

type createFundraiserBody struct {
	Beneficiary  string `json:"beneficiary"`
	Goal         int64  `json:"goal"`
	DurationDays int    `json:"duration_days"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	URI          string `json:"uri"`
}

// FundraisersCreate opens a new campaign. Goal and duration are passed to the
// registry as given; only negative goals are rejected here because the wire
// format allows them while the ledger model does not.
func (a *App) FundraisersCreate(w http.ResponseWriter, r *http.Request) {
	var body createFundraiserBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if body.Beneficiary == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "beneficiary is required")
		return
	}
	if body.Goal < 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "goal must not be negative")
		return
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		title = cases.Title(language.English).String("untitled campaign")
	}

	f, err := a.Fundraisers.CreateFundraiser(
		a.caller(r),
		domain.Identity(body.Beneficiary),
		body.Goal,
		body.DurationDays,
		title,
		body.Description,
		body.URI,
	)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, f.Details())
}

// FundraisersList returns every campaign in creation order.
func (a *App) FundraisersList(w http.ResponseWriter, r *http.Request) {
	list := a.Fundraisers.List()
	items := make([]domain.Details, len(list))
	for i, f := range list {
		items[i] = f.Details()
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// FundraiserGet returns one campaign's snapshot plus the caller's withdraw
// hint.
func (a *App) FundraiserGet(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"fundraiser":   f.Details(),
		"can_withdraw": f.CanWithdraw(a.caller(r)),
	})
}

type donationBody struct {
	Amount  int64  `json:"amount"`
	Comment string `json:"comment"`
}

// DonationsCreate records a donation from the caller.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	var body donationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := f.Donate(a.caller(r), body.Amount, body.Comment); err != nil {
		a.domainError(w, err)
		return
	}
	ev := a.Logger.Info().
		Str("fundraiser", f.ID().String()).
		Int64("amount", body.Amount)
	if country := middleware.CountryFromContext(r.Context()); country != "" {
		ev = ev.Str("country", country)
	}
	ev.Msg("donation accepted")
	a.json(w, http.StatusCreated, f.Details())
}

// DonationsList enumerates every donation on a campaign.
func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	donations := f.AllDonations()
	items := make([]map[string]any, len(donations))
	for i, d := range donations {
		items[i] = map[string]any{
			"sender":  d.Sender,
			"amount":  d.Amount,
			"comment": d.Comment,
		}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type commentBody struct {
	Text string `json:"text"`
}

// CommentsCreate appends a comment to a campaign.
func (a *App) CommentsCreate(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := f.PostComment(a.caller(r), body.Text); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"result": "created"})
}

// CommentsList enumerates every comment on a campaign.
func (a *App) CommentsList(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	comments := f.AllComments()
	items := make([]map[string]any, len(comments))
	for i, c := range comments {
		items[i] = map[string]any{"sender": c.Sender, "text": c.Text}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// FundraiserApprove marks a campaign approved (administrator).
func (a *App) FundraiserApprove(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	if err := f.Approve(a.caller(r)); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, f.Details())
}

// FundraiserDecline marks a campaign declined with a reason (administrator).
func (a *App) FundraiserDecline(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	var body declineRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := f.Decline(a.caller(r), body.Reason); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, f.Details())
}

// FundraiserWithdraw releases the balance to the beneficiary.
func (a *App) FundraiserWithdraw(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	if err := f.WithdrawFunds(a.caller(r)); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, f.Details())
}

// FundraiserUpvote toggles the caller's upvote.
func (a *App) FundraiserUpvote(w http.ResponseWriter, r *http.Request) {
	f, ok := a.fundraiser(w, r)
	if !ok {
		return
	}
	value := f.ToggleUpvote(a.caller(r))
	a.json(w, http.StatusOK, map[string]any{
		"upvoted":      value,
		"upvote_count": f.Details().UpvoteCount,
	})
}

func (a *App) fundraiser(w http.ResponseWriter, r *http.Request) (*domain.Fundraiser, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "unknown fundraiser")
		return nil, false
	}
	f, err := a.Fundraisers.Get(id)
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	return f, true
}
