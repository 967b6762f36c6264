package domain

import (
	"time"

	"github.com/google/uuid"
)

// FundraiserRegistry creates campaigns and keeps them in creation order.
// Creation is gated on the caller's standing in the shared user registry;
// each new Fundraiser is bound to that registry and the shared ledger.
type FundraiserRegistry struct {
	ledger *Ledger
	users  *UserRegistry
	events EventSink
	payout PayoutFunc

	list []*Fundraiser
	byID map[uuid.UUID]*Fundraiser
}

// NewFundraiserRegistry creates a factory sharing the user registry's ledger.
// payout may be nil when the host has no funds transfer to perform.
func NewFundraiserRegistry(users *UserRegistry, events EventSink, payout PayoutFunc) *FundraiserRegistry {
	if events == nil {
		events = NopSink{}
	}
	return &FundraiserRegistry{
		ledger: users.ledger,
		users:  users,
		events: events,
		payout: payout,
		byID:   make(map[uuid.UUID]*Fundraiser),
	}
}

// CreateFundraiser instantiates a new campaign. Blocked callers cannot create
// campaigns. A benefactor beneficiary starts Approved, anyone else Pending.
//
// Goal and duration are taken as given: a zero goal is immediately
// withdrawable and a non-positive duration yields a campaign that expires at
// or before creation.
func (r *FundraiserRegistry) CreateFundraiser(caller, beneficiary Identity, goal int64, durationDays int, title, description, uri string) (*Fundraiser, error) {
	defer r.ledger.lock()()
	if r.users.statusLocked(caller) == StatusBlocked {
		return nil, ErrCallerBlocked
	}
	now := r.ledger.now()
	status := FundraiserPending
	if r.users.statusLocked(beneficiary) == StatusBenefactor {
		status = FundraiserApproved
	}
	f := &Fundraiser{
		ledger:      r.ledger,
		users:       r.users,
		events:      r.events,
		payout:      r.payout,
		id:          uuid.New(),
		beneficiary: beneficiary,
		goal:        goal,
		deadline:    now.Add(time.Duration(durationDays) * 24 * time.Hour),
		createdAt:   now,
		title:       title,
		description: description,
		uri:         uri,
		status:      status,
		upvoters:    make(map[Identity]bool),
	}
	r.list = append(r.list, f)
	r.byID[f.id] = f
	r.events.Emit(FundraiserCreated{Fundraiser: f.id, Beneficiary: beneficiary, Goal: goal, Deadline: f.deadline})
	return f, nil
}

// Get returns the fundraiser with the given id.
func (r *FundraiserRegistry) Get(id uuid.UUID) (*Fundraiser, error) {
	defer r.ledger.lock()()
	f, ok := r.byID[id]
	if !ok {
		return nil, ErrFundraiserNotFound
	}
	return f, nil
}

// List returns all fundraisers in creation order.
func (r *FundraiserRegistry) List() []*Fundraiser {
	defer r.ledger.lock()()
	out := make([]*Fundraiser, len(r.list))
	copy(out, r.list)
	return out
}

// Count returns how many fundraisers exist.
func (r *FundraiserRegistry) Count() int {
	defer r.ledger.lock()()
	return len(r.list)
}
