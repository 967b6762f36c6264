package domain

import (
	"time"

	"github.com/google/uuid"
)

// FundraiserStatus enumerates campaign lifecycle states.
type FundraiserStatus string

const (
	FundraiserPending  FundraiserStatus = "pending"
	FundraiserApproved FundraiserStatus = "approved"
	FundraiserDeclined FundraiserStatus = "declined"
	FundraiserFinished FundraiserStatus = "finished"
)

const (
	declineReasonMinLen = 1
	declineReasonMaxLen = 200
)

// Donation is one contribution to a campaign. Sender is Nobody and Comment
// empty when the donor was blocked at donation time; the amount still counts.
type Donation struct {
	Sender  Identity
	Amount  int64
	Comment string
}

// Comment is a message left on a campaign page.
type Comment struct {
	Sender Identity
	Text   string
}

// PayoutFunc releases funds to a beneficiary. It runs as the last effect of a
// successful withdrawal, after all campaign state is committed.
type PayoutFunc func(beneficiary Identity, amount int64)

// Fundraiser is a single campaign ledger: its donations, comments, upvotes
// and lifecycle status. Instances are created by the FundraiserRegistry and
// share its ledger, so campaign operations serialize with registry ones.
type Fundraiser struct {
	ledger *Ledger
	users  *UserRegistry
	events EventSink
	payout PayoutFunc

	id          uuid.UUID
	beneficiary Identity
	goal        int64
	deadline    time.Time
	createdAt   time.Time

	title       string
	description string
	uri         string

	status         FundraiserStatus
	declineReason  string
	totalDonations int64
	balance        int64
	donations      []Donation
	comments       []Comment
	upvoters       map[Identity]bool
	upvoteCount    int
}

// ID returns the stable campaign identifier.
func (f *Fundraiser) ID() uuid.UUID {
	return f.id
}

// Beneficiary returns the identity funds are released to.
func (f *Fundraiser) Beneficiary() Identity {
	return f.beneficiary
}

// Donate records a contribution of amount with an optional comment. The
// deadline check applies to every caller; a blocked caller's donation is
// still accepted but recorded anonymously with the comment cleared.
func (f *Fundraiser) Donate(caller Identity, amount int64, comment string) error {
	defer f.ledger.lock()()
	if amount <= 0 {
		return ErrDonationTooLow
	}
	if f.ledger.now().After(f.deadline) {
		return ErrCampaignExpired
	}
	sender := caller
	if f.users.statusLocked(caller) == StatusBlocked {
		sender = Nobody
		comment = ""
	}
	f.donations = append(f.donations, Donation{Sender: sender, Amount: amount, Comment: comment})
	f.totalDonations += amount
	f.balance += amount
	f.events.Emit(DonationReceived{Fundraiser: f.id, Donor: sender, Amount: amount, Comment: comment})
	return nil
}

// PostComment appends a comment to the campaign. Blocked callers cannot
// comment at all, unlike donations.
func (f *Fundraiser) PostComment(caller Identity, text string) error {
	defer f.ledger.lock()()
	if f.ledger.now().After(f.deadline) {
		return ErrCampaignExpired
	}
	if f.users.statusLocked(caller) == StatusBlocked {
		return ErrCallerBlocked
	}
	f.comments = append(f.comments, Comment{Sender: caller, Text: text})
	f.events.Emit(CommentCreated{Fundraiser: f.id, Creator: caller, Comment: text})
	return nil
}

// Approve marks the campaign approved and clears any prior decline reason.
// Administrator only. Allowed in any state, including Finished.
func (f *Fundraiser) Approve(caller Identity) error {
	defer f.ledger.lock()()
	if !f.users.isAdminLocked(caller) {
		return ErrNotAdmin
	}
	f.status = FundraiserApproved
	f.declineReason = ""
	return nil
}

// Decline marks the campaign declined with a reason of 1 to 200 characters.
// Administrator only. Allowed in any state, including Finished.
func (f *Fundraiser) Decline(caller Identity, reason string) error {
	defer f.ledger.lock()()
	if !f.users.isAdminLocked(caller) {
		return ErrNotAdmin
	}
	if len(reason) < declineReasonMinLen {
		return ErrReasonTooShort
	}
	if len(reason) > declineReasonMaxLen {
		return ErrReasonTooLong
	}
	f.status = FundraiserDeclined
	f.declineReason = reason
	return nil
}

// WithdrawFunds releases the held balance to the beneficiary once the goal is
// met. With the goal unmet it fails DeadlineNotPassed before the deadline and
// GoalNotMet after it. A repeat call after a successful withdrawal passes the
// goal check and releases zero. The balance transfer is the last effect, after
// status and balance are committed.
func (f *Fundraiser) WithdrawFunds(caller Identity) error {
	defer f.ledger.lock()()
	if caller != f.beneficiary {
		return ErrNotBeneficiary
	}
	now := f.ledger.now()
	if f.totalDonations < f.goal {
		if !now.After(f.deadline) {
			return ErrDeadlineNotPassed
		}
		return ErrGoalNotMet
	}
	amount := f.balance
	f.balance = 0
	f.status = FundraiserFinished
	f.events.Emit(FundsWithdrawn{Fundraiser: f.id, Amount: amount, At: now})
	if f.payout != nil {
		f.payout(f.beneficiary, amount)
	}
	return nil
}

// ToggleUpvote flips the caller's membership in the upvoter set and reports
// the new value. Two consecutive calls by the same caller cancel out.
func (f *Fundraiser) ToggleUpvote(caller Identity) bool {
	defer f.ledger.lock()()
	if f.upvoters[caller] {
		delete(f.upvoters, caller)
		f.upvoteCount--
		f.events.Emit(UpvoteToggled{Fundraiser: f.id, User: caller, Value: false})
		return false
	}
	f.upvoters[caller] = true
	f.upvoteCount++
	f.events.Emit(UpvoteToggled{Fundraiser: f.id, User: caller, Value: true})
	return true
}

// AllDonations returns every recorded donation in order.
func (f *Fundraiser) AllDonations() []Donation {
	defer f.ledger.lock()()
	out := make([]Donation, len(f.donations))
	copy(out, f.donations)
	return out
}

// AllComments returns every comment in order.
func (f *Fundraiser) AllComments() []Comment {
	defer f.ledger.lock()()
	out := make([]Comment, len(f.comments))
	copy(out, f.comments)
	return out
}

// Details is a full read-only snapshot of a campaign.
type Details struct {
	ID             uuid.UUID        `json:"id"`
	Status         FundraiserStatus `json:"status"`
	Beneficiary    Identity         `json:"beneficiary"`
	Goal           int64            `json:"goal"`
	Deadline       time.Time        `json:"deadline"`
	CreatedAt      time.Time        `json:"created_at"`
	TotalDonations int64            `json:"total_donations"`
	Balance        int64            `json:"balance"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	URI            string           `json:"uri"`
	DeclineReason  string           `json:"decline_reason,omitempty"`
	UpvoteCount    int              `json:"upvote_count"`
}

// Details returns the campaign snapshot.
func (f *Fundraiser) Details() Details {
	defer f.ledger.lock()()
	return Details{
		ID:             f.id,
		Status:         f.status,
		Beneficiary:    f.beneficiary,
		Goal:           f.goal,
		Deadline:       f.deadline,
		CreatedAt:      f.createdAt,
		TotalDonations: f.totalDonations,
		Balance:        f.balance,
		Title:          f.title,
		Description:    f.description,
		URI:            f.uri,
		DeclineReason:  f.declineReason,
		UpvoteCount:    f.upvoteCount,
	}
}

// CanWithdraw reports whether caller could plausibly withdraw right now.
// The predicate is deadline-OR-goal: it returns true for the beneficiary
// once the deadline passed even when the goal is unmet, a case where
// WithdrawFunds itself would fail GoalNotMet. Kept as-is; callers treat it
// as a hint, not a guarantee.
func (f *Fundraiser) CanWithdraw(caller Identity) bool {
	defer f.ledger.lock()()
	now := f.ledger.now()
	return (f.totalDonations >= f.goal || !now.Before(f.deadline)) && caller == f.beneficiary
}
