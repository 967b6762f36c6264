package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fact the platform emits after a state transition commits.
// Concrete events carry the exact fields observers rely on; sinks decide
// where they go (logs, the journal, test collectors).
type Event interface {
	Kind() string
}

// EventSink receives committed events. Implementations must not call back
// into the registries; events are emitted while the ledger lock is held.
type EventSink interface {
	Emit(e Event)
}

// DonationReceived is emitted for every accepted donation. Donor and Comment
// are already anonymized when the donor was blocked at donation time.
type DonationReceived struct {
	Fundraiser uuid.UUID `json:"fundraiser"`
	Donor      Identity  `json:"donor"`
	Amount     int64     `json:"amount"`
	Comment    string    `json:"comment"`
}

// CommentCreated is emitted when a comment is appended to a fundraiser.
type CommentCreated struct {
	Fundraiser uuid.UUID `json:"fundraiser"`
	Creator    Identity  `json:"creator"`
	Comment    string    `json:"comment"`
}

// FundsWithdrawn is emitted once per successful withdrawal. Amount is the
// balance released; later withdrawals of a met goal release zero.
type FundsWithdrawn struct {
	Fundraiser uuid.UUID `json:"fundraiser"`
	Amount     int64     `json:"amount"`
	At         time.Time `json:"at"`
}

// UpvoteToggled carries the caller's new membership in the upvoter set.
type UpvoteToggled struct {
	Fundraiser uuid.UUID `json:"fundraiser"`
	User       Identity  `json:"user"`
	Value      bool      `json:"value"`
}

// Block is emitted when the administrator blocks a user.
type Block struct {
	User Identity  `json:"user"`
	At   time.Time `json:"at"`
}

// Unblock is emitted when the administrator unblocks a user.
type Unblock struct {
	User Identity  `json:"user"`
	At   time.Time `json:"at"`
}

// GiveBenefactor is emitted when a promotion request is approved.
type GiveBenefactor struct {
	User Identity  `json:"user"`
	At   time.Time `json:"at"`
}

// DeclineBenefactor is emitted when a promotion request is declined.
type DeclineBenefactor struct {
	User Identity  `json:"user"`
	At   time.Time `json:"at"`
}

// CreateBenefactorRequest is emitted when a user files a promotion request.
type CreateBenefactorRequest struct {
	User    Identity `json:"user"`
	Comment string   `json:"comment"`
}

// FundraiserCreated announces a new campaign and its terms.
type FundraiserCreated struct {
	Fundraiser  uuid.UUID `json:"fundraiser"`
	Beneficiary Identity  `json:"beneficiary"`
	Goal        int64     `json:"goal"`
	Deadline    time.Time `json:"deadline"`
}

func (DonationReceived) Kind() string { return "donation_received" }

func (CommentCreated) Kind() string { return "comment_created" }

func (FundsWithdrawn) Kind() string { return "funds_withdrawn" }

func (UpvoteToggled) Kind() string { return "upvote_toggled" }

func (Block) Kind() string { return "block" }

func (Unblock) Kind() string { return "unblock" }

func (GiveBenefactor) Kind() string { return "give_benefactor" }

func (DeclineBenefactor) Kind() string { return "decline_benefactor" }

func (CreateBenefactorRequest) Kind() string { return "create_benefactor_request" }

func (FundraiserCreated) Kind() string { return "fundraiser_created" }

// MultiSink fans an event out to every sink in order.
type MultiSink []EventSink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// NopSink discards events. Used when no sink is configured.
type NopSink struct{}

func (NopSink) Emit(Event) {}
