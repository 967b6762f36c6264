package domain

// UserStatus enumerates participant standing within the platform.
type UserStatus string

const (
	// StatusActive is the default for identities never seen before.
	StatusActive     UserStatus = "active"
	StatusBlocked    UserStatus = "blocked"
	StatusBenefactor UserStatus = "benefactor"
)

// RequestStatus enumerates the lifecycle of a benefactor request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDeclined RequestStatus = "declined"
)

// BenefactorRequest is a user's petition for benefactor standing. Once
// resolved it persists as the sender's decision record.
type BenefactorRequest struct {
	Sender        Identity
	Comment       string
	DeclineReason string
	Status        RequestStatus
}

// UserRegistry owns the identity -> status mapping and arbitration of
// benefactor requests. The administrator identity is fixed at creation.
//
// Pending requests form a stack: the administrator always resolves the most
// recently filed request first. Earlier requesters can be starved by a steady
// flow of new requests; that is the documented arbitration policy, not a bug.
type UserRegistry struct {
	ledger *Ledger
	events EventSink

	admin   Identity
	status  map[Identity]UserStatus
	pending []*BenefactorRequest
	latest  map[Identity]*BenefactorRequest
}

// NewUserRegistry creates a registry administered by admin. A nil sink
// discards events.
func NewUserRegistry(ledger *Ledger, admin Identity, events EventSink) *UserRegistry {
	if events == nil {
		events = NopSink{}
	}
	return &UserRegistry{
		ledger: ledger,
		events: events,
		admin:  admin,
		status: make(map[Identity]UserStatus),
		latest: make(map[Identity]*BenefactorRequest),
	}
}

// Admin returns the administrator identity.
func (r *UserRegistry) Admin() Identity {
	return r.admin
}

// StatusOf reports the status of an identity, Active for unknown identities.
func (r *UserRegistry) StatusOf(id Identity) UserStatus {
	defer r.ledger.lock()()
	return r.statusLocked(id)
}

// LatestRequestOf returns the most recent benefactor request filed by sender,
// or ok=false when the sender never filed one. The returned value is a copy.
func (r *UserRegistry) LatestRequestOf(sender Identity) (BenefactorRequest, bool) {
	defer r.ledger.lock()()
	req, ok := r.latest[sender]
	if !ok {
		return BenefactorRequest{}, false
	}
	return *req, true
}

// PendingRequests returns the unresolved requests in submission order. The
// last element is the one the administrator will resolve next.
func (r *UserRegistry) PendingRequests() []BenefactorRequest {
	defer r.ledger.lock()()
	out := make([]BenefactorRequest, len(r.pending))
	for i, req := range r.pending {
		out[i] = *req
	}
	return out
}

// RequestBenefactorStatus files a promotion request for caller. A caller with
// an unresolved request cannot file another until it is decided.
func (r *UserRegistry) RequestBenefactorStatus(caller Identity, comment string) error {
	defer r.ledger.lock()()
	if req, ok := r.latest[caller]; ok && req.Status == RequestPending {
		return ErrRequestAlreadyPending
	}
	req := &BenefactorRequest{Sender: caller, Comment: comment, Status: RequestPending}
	r.pending = append(r.pending, req)
	r.latest[caller] = req
	r.events.Emit(CreateBenefactorRequest{User: caller, Comment: comment})
	return nil
}

// BlockUser sets target to Blocked. Administrator only. Blocking an already
// blocked user succeeds.
func (r *UserRegistry) BlockUser(caller, target Identity) error {
	defer r.ledger.lock()()
	if caller != r.admin {
		return ErrNotAdmin
	}
	r.status[target] = StatusBlocked
	r.events.Emit(Block{User: target, At: r.ledger.now()})
	return nil
}

// UnblockUser sets target back to Active. Administrator only. Idempotent.
func (r *UserRegistry) UnblockUser(caller, target Identity) error {
	defer r.ledger.lock()()
	if caller != r.admin {
		return ErrNotAdmin
	}
	r.status[target] = StatusActive
	r.events.Emit(Unblock{User: target, At: r.ledger.now()})
	return nil
}

// PromoteLatestRequest approves the most recently filed pending request,
// granting its sender benefactor standing. Administrator only.
func (r *UserRegistry) PromoteLatestRequest(caller Identity) error {
	defer r.ledger.lock()()
	req, err := r.popLocked(caller)
	if err != nil {
		return err
	}
	req.Status = RequestApproved
	r.status[req.Sender] = StatusBenefactor
	r.events.Emit(GiveBenefactor{User: req.Sender, At: r.ledger.now()})
	return nil
}

// DeclineLatestRequest declines the most recently filed pending request and
// records the reason. Administrator only. The reason is stored as given; this
// path does not bound its length.
func (r *UserRegistry) DeclineLatestRequest(caller Identity, reason string) error {
	defer r.ledger.lock()()
	req, err := r.popLocked(caller)
	if err != nil {
		return err
	}
	req.Status = RequestDeclined
	req.DeclineReason = reason
	r.events.Emit(DeclineBenefactor{User: req.Sender, At: r.ledger.now()})
	return nil
}

func (r *UserRegistry) popLocked(caller Identity) (*BenefactorRequest, error) {
	if caller != r.admin {
		return nil, ErrNotAdmin
	}
	if len(r.pending) == 0 {
		return nil, ErrEmptyQueue
	}
	req := r.pending[len(r.pending)-1]
	r.pending[len(r.pending)-1] = nil
	r.pending = r.pending[:len(r.pending)-1]
	return req, nil
}

func (r *UserRegistry) statusLocked(id Identity) UserStatus {
	if s, ok := r.status[id]; ok {
		return s
	}
	return StatusActive
}

func (r *UserRegistry) isAdminLocked(id Identity) bool {
	return id == r.admin
}
