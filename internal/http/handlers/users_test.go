package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
)

const testAdmin = "admin-1"

func newTestApp(t *testing.T) *App {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ledger := domain.NewLedger(clock)
	users := domain.NewUserRegistry(ledger, testAdmin, nil)
	fundraisers := domain.NewFundraiserRegistry(users, nil, nil)
	return NewApp(users, fundraisers, nil, zerolog.Nop())
}

// testRouter mounts the API routes with the given identity pre-authenticated.
func testRouter(app *App, identity string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.ContextWithIdentity(req.Context(), identity)))
		})
	})
	r.Post("/v1/benefactor-requests", app.BenefactorRequestCreate)
	r.Get("/v1/users/{identity}/status", app.UserStatus)
	r.Get("/v1/users/{identity}/benefactor-request", app.UserBenefactorRequest)
	r.Post("/v1/admin/users/{identity}/block", app.AdminBlockUser)
	r.Post("/v1/admin/users/{identity}/unblock", app.AdminUnblockUser)
	r.Get("/v1/admin/benefactor-requests", app.AdminPendingRequests)
	r.Post("/v1/admin/benefactor-requests/promote", app.AdminPromoteRequest)
	r.Post("/v1/admin/benefactor-requests/decline", app.AdminDeclineRequest)
	r.Get("/v1/admin/journal", app.AdminJournal)
	r.Post("/v1/fundraisers", app.FundraisersCreate)
	r.Get("/v1/fundraisers", app.FundraisersList)
	r.Route("/v1/fundraisers/{id}", func(r chi.Router) {
		r.Get("/", app.FundraiserGet)
		r.Post("/donations", app.DonationsCreate)
		r.Get("/donations", app.DonationsList)
		r.Post("/comments", app.CommentsCreate)
		r.Get("/comments", app.CommentsList)
		r.Post("/approve", app.FundraiserApprove)
		r.Post("/decline", app.FundraiserDecline)
		r.Post("/withdraw", app.FundraiserWithdraw)
		r.Post("/upvote", app.FundraiserUpvote)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rr, &payload)
	return payload.Error.Code
}

func TestBenefactorRequestCreateAndConflict(t *testing.T) {
	app := newTestApp(t)
	router := testRouter(app, "alice")

	rr := do(t, router, "POST", "/v1/benefactor-requests", `{"comment":"I host charity drives"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
	var created struct {
		Sender string `json:"sender"`
		Status string `json:"status"`
	}
	decode(t, rr, &created)
	if created.Sender != "alice" || created.Status != "pending" {
		t.Fatalf("unexpected response: %#v", created)
	}

	rr = do(t, router, "POST", "/v1/benefactor-requests", `{"comment":"again"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	if code := errorCode(t, rr); code != "request_already_pending" {
		t.Fatalf("error code: got %q", code)
	}
}

func TestUserStatusDefaultsToActive(t *testing.T) {
	app := newTestApp(t)
	router := testRouter(app, "alice")

	rr := do(t, router, "GET", "/v1/users/stranger/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var payload struct {
		Status string `json:"status"`
	}
	decode(t, rr, &payload)
	if payload.Status != "active" {
		t.Fatalf("status: got %q, want %q", payload.Status, "active")
	}
}

func TestUserBenefactorRequestNotFound(t *testing.T) {
	app := newTestApp(t)
	router := testRouter(app, "alice")

	rr := do(t, router, "GET", "/v1/users/alice/benefactor-request", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAdminEndpointsRejectNonAdmin(t *testing.T) {
	app := newTestApp(t)
	router := testRouter(app, "mallory")

	for _, tc := range []struct {
		method, path, body string
	}{
		{"POST", "/v1/admin/users/bob/block", ""},
		{"POST", "/v1/admin/users/bob/unblock", ""},
		{"GET", "/v1/admin/benefactor-requests", ""},
		{"POST", "/v1/admin/benefactor-requests/promote", ""},
		{"POST", "/v1/admin/benefactor-requests/decline", `{"reason":"no"}`},
		{"GET", "/v1/admin/journal", ""},
	} {
		rr := do(t, router, tc.method, tc.path, tc.body)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s %s: status %d, want %d", tc.method, tc.path, rr.Code, http.StatusForbidden)
		}
		if code := errorCode(t, rr); code != "not_admin" {
			t.Fatalf("%s %s: error code %q", tc.method, tc.path, code)
		}
	}
}

func TestBlockPromoteFlowThroughAPI(t *testing.T) {
	app := newTestApp(t)
	user := testRouter(app, "alice")
	admin := testRouter(app, testAdmin)

	if rr := do(t, user, "POST", "/v1/benefactor-requests", `{"comment":"pick me"}`); rr.Code != http.StatusCreated {
		t.Fatalf("request: status %d", rr.Code)
	}

	rr := do(t, admin, "GET", "/v1/admin/benefactor-requests", "")
	var pending struct {
		Items []struct {
			Sender string `json:"sender"`
		} `json:"items"`
	}
	decode(t, rr, &pending)
	if len(pending.Items) != 1 || pending.Items[0].Sender != "alice" {
		t.Fatalf("unexpected pending list: %#v", pending)
	}

	if rr := do(t, admin, "POST", "/v1/admin/benefactor-requests/promote", ""); rr.Code != http.StatusOK {
		t.Fatalf("promote: status %d", rr.Code)
	}

	rr = do(t, user, "GET", "/v1/users/alice/status", "")
	var status struct {
		Status string `json:"status"`
	}
	decode(t, rr, &status)
	if status.Status != "benefactor" {
		t.Fatalf("status: got %q, want %q", status.Status, "benefactor")
	}

	// Queue drained: another promote conflicts.
	rr = do(t, admin, "POST", "/v1/admin/benefactor-requests/promote", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("promote on empty queue: status %d", rr.Code)
	}
	if code := errorCode(t, rr); code != "empty_queue" {
		t.Fatalf("error code: got %q", code)
	}
}

func TestAdminJournalDisabledWithoutDatabase(t *testing.T) {
	app := newTestApp(t)
	admin := testRouter(app, testAdmin)

	rr := do(t, admin, "GET", "/v1/admin/journal", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
