package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type clockApp struct {
	*App
	now time.Time
}

func newClockApp(t *testing.T) *clockApp {
	t.Helper()
	ca := &clockApp{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ledger := domain.NewLedger(func() time.Time { return ca.now })
	users := domain.NewUserRegistry(ledger, testAdmin, nil)
	fundraisers := domain.NewFundraiserRegistry(users, nil, nil)
	ca.App = NewApp(users, fundraisers, nil, zerolog.Nop())
	return ca
}

func (ca *clockApp) createFundraiser(t *testing.T, router http.Handler, goal int64, days int) string {
	t.Helper()
	body := fmt.Sprintf(`{"beneficiary":"ben","goal":%d,"duration_days":%d,"title":"school roof","description":"fix the leaks","uri":"https://example.org/roof"}`, goal, days)
	rr := do(t, router, "POST", "/v1/fundraisers", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create fundraiser: status %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rr, &created)
	if created.ID == "" {
		t.Fatal("missing fundraiser id")
	}
	return created.ID
}

func TestCreateFundraiserValidation(t *testing.T) {
	ca := newClockApp(t)
	router := testRouter(ca.App, "creator")

	rr := do(t, router, "POST", "/v1/fundraisers", `{"goal":100,"duration_days":30}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing beneficiary: status %d", rr.Code)
	}

	rr = do(t, router, "POST", "/v1/fundraisers", `{"beneficiary":"ben","goal":-1,"duration_days":30}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative goal: status %d", rr.Code)
	}

	// Zero goal and zero duration are accepted as given.
	rr = do(t, router, "POST", "/v1/fundraisers", `{"beneficiary":"ben","goal":0,"duration_days":0,"title":"t"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("zero goal/duration: status %d", rr.Code)
	}
}

func TestCreateFundraiserDefaultsTitle(t *testing.T) {
	ca := newClockApp(t)
	router := testRouter(ca.App, "creator")

	rr := do(t, router, "POST", "/v1/fundraisers", `{"beneficiary":"ben","goal":10,"duration_days":5,"title":"  "}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: %d", rr.Code)
	}
	var created struct {
		Title string `json:"title"`
	}
	decode(t, rr, &created)
	if created.Title != "Untitled Campaign" {
		t.Fatalf("title: got %q", created.Title)
	}
}

func TestCreateFundraiserBlockedCaller(t *testing.T) {
	ca := newClockApp(t)
	admin := testRouter(ca.App, testAdmin)
	creator := testRouter(ca.App, "creator")

	if rr := do(t, admin, "POST", "/v1/admin/users/creator/block", ""); rr.Code != http.StatusOK {
		t.Fatalf("block: status %d", rr.Code)
	}
	rr := do(t, creator, "POST", "/v1/fundraisers", `{"beneficiary":"ben","goal":100,"duration_days":30}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
	if code := errorCode(t, rr); code != "caller_blocked" {
		t.Fatalf("error code: got %q", code)
	}
}

func TestDonateWithdrawHappyPath(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	donor := testRouter(ca.App, "donor")
	ben := testRouter(ca.App, "ben")

	id := ca.createFundraiser(t, creator, 100, 30)

	rr := do(t, donor, "POST", "/v1/fundraisers/"+id+"/donations", `{"amount":100,"comment":"good cause"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("donate: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, ben, "POST", "/v1/fundraisers/"+id+"/withdraw", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("withdraw: status %d: %s", rr.Code, rr.Body.String())
	}
	var details struct {
		Status  string `json:"status"`
		Balance int64  `json:"balance"`
	}
	decode(t, rr, &details)
	if details.Status != "finished" || details.Balance != 0 {
		t.Fatalf("unexpected state after withdrawal: %#v", details)
	}
}

func TestWithdrawGoalUnmetAfterDeadline(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	donor := testRouter(ca.App, "donor")
	ben := testRouter(ca.App, "ben")

	id := ca.createFundraiser(t, creator, 100, 30)

	if rr := do(t, donor, "POST", "/v1/fundraisers/"+id+"/donations", `{"amount":50}`); rr.Code != http.StatusCreated {
		t.Fatalf("donate: status %d", rr.Code)
	}

	rr := do(t, ben, "POST", "/v1/fundraisers/"+id+"/withdraw", "")
	if rr.Code != http.StatusConflict || errorCode(t, rr) != "deadline_not_passed" {
		t.Fatalf("before deadline: status %d", rr.Code)
	}

	ca.now = ca.now.Add(31 * 24 * time.Hour)
	rr = do(t, ben, "POST", "/v1/fundraisers/"+id+"/withdraw", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("after deadline: status %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "goal_not_met" {
		t.Fatalf("error code: got %q", code)
	}
}

func TestBlockedDonorAnonymizedThroughAPI(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	admin := testRouter(ca.App, testAdmin)
	troll := testRouter(ca.App, "troll")

	id := ca.createFundraiser(t, creator, 100, 30)

	if rr := do(t, admin, "POST", "/v1/admin/users/troll/block", ""); rr.Code != http.StatusOK {
		t.Fatalf("block: status %d", rr.Code)
	}
	if rr := do(t, troll, "POST", "/v1/fundraisers/"+id+"/donations", `{"amount":1,"comment":"hi"}`); rr.Code != http.StatusCreated {
		t.Fatalf("donate: status %d", rr.Code)
	}

	rr := do(t, creator, "GET", "/v1/fundraisers/"+id+"/donations", "")
	var payload struct {
		Items []struct {
			Sender  string `json:"sender"`
			Amount  int64  `json:"amount"`
			Comment string `json:"comment"`
		} `json:"items"`
	}
	decode(t, rr, &payload)
	if len(payload.Items) != 1 {
		t.Fatalf("donation count: %d", len(payload.Items))
	}
	item := payload.Items[0]
	if item.Sender != "" || item.Comment != "" || item.Amount != 1 {
		t.Fatalf("donation should be anonymized: %#v", item)
	}

	// A blocked user still cannot comment.
	if rr := do(t, troll, "POST", "/v1/fundraisers/"+id+"/comments", `{"text":"hello"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("comment: status %d", rr.Code)
	}
}

func TestDeclineReasonBoundsThroughAPI(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	admin := testRouter(ca.App, testAdmin)

	id := ca.createFundraiser(t, creator, 100, 30)

	rr := do(t, admin, "POST", "/v1/fundraisers/"+id+"/decline", `{"reason":""}`)
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != "reason_too_short" {
		t.Fatalf("empty reason: status %d", rr.Code)
	}

	rr = do(t, admin, "POST", "/v1/fundraisers/"+id+"/decline", `{"reason":"incomplete paperwork"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("decline: status %d", rr.Code)
	}
	var details struct {
		Status        string `json:"status"`
		DeclineReason string `json:"decline_reason"`
	}
	decode(t, rr, &details)
	if details.Status != "declined" || details.DeclineReason != "incomplete paperwork" {
		t.Fatalf("unexpected state: %#v", details)
	}

	rr = do(t, admin, "POST", "/v1/fundraisers/"+id+"/approve", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("approve: status %d", rr.Code)
	}
	decode(t, rr, &details)
	if details.Status != "approved" || details.DeclineReason != "" {
		t.Fatalf("approve should clear reason: %#v", details)
	}
}

func TestUpvoteToggleThroughAPI(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	fan := testRouter(ca.App, "fan")

	id := ca.createFundraiser(t, creator, 100, 30)

	rr := do(t, fan, "POST", "/v1/fundraisers/"+id+"/upvote", "")
	var payload struct {
		Upvoted bool `json:"upvoted"`
		Count   int  `json:"upvote_count"`
	}
	decode(t, rr, &payload)
	if !payload.Upvoted || payload.Count != 1 {
		t.Fatalf("first toggle: %#v", payload)
	}

	rr = do(t, fan, "POST", "/v1/fundraisers/"+id+"/upvote", "")
	decode(t, rr, &payload)
	if payload.Upvoted || payload.Count != 0 {
		t.Fatalf("second toggle: %#v", payload)
	}
}

func TestFundraiserGetUnknownID(t *testing.T) {
	ca := newClockApp(t)
	router := testRouter(ca.App, "anyone")

	rr := do(t, router, "GET", "/v1/fundraisers/not-a-uuid/", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("bad id: status %d", rr.Code)
	}

	rr = do(t, router, "GET", "/v1/fundraisers/1b4e28ba-2fa1-11d2-883f-0016d3cca427/", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status %d", rr.Code)
	}
}

func TestFundraiserGetReportsCanWithdraw(t *testing.T) {
	ca := newClockApp(t)
	creator := testRouter(ca.App, "creator")
	ben := testRouter(ca.App, "ben")

	id := ca.createFundraiser(t, creator, 100, 30)
	ca.now = ca.now.Add(31 * 24 * time.Hour)

	// Deadline passed with no donations: the hint is true for the
	// beneficiary even though an actual withdrawal would fail.
	rr := do(t, ben, "GET", "/v1/fundraisers/"+id+"/", "")
	var payload struct {
		CanWithdraw bool `json:"can_withdraw"`
	}
	decode(t, rr, &payload)
	if !payload.CanWithdraw {
		t.Fatal("expected can_withdraw true for beneficiary after deadline")
	}

	rr = do(t, creator, "GET", "/v1/fundraisers/"+id+"/", "")
	decode(t, rr, &payload)
	if payload.CanWithdraw {
		t.Fatal("expected can_withdraw false for non-beneficiary")
	}
}
