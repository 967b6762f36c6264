package domain

import "errors"

// Authorization failures.
var (
	ErrNotAdmin       = errors.New("caller is not the administrator")
	ErrNotBeneficiary = errors.New("caller is not the beneficiary")
	ErrCallerBlocked  = errors.New("caller is blocked")
)

// Validation failures.
var (
	ErrDonationTooLow = errors.New("donation amount must be positive")
	ErrReasonTooShort = errors.New("decline reason is too short")
	ErrReasonTooLong  = errors.New("decline reason is too long")
)

// State failures. Operations validate preconditions before mutating anything,
// so a state error always means the operation had no effect.
var (
	ErrRequestAlreadyPending = errors.New("benefactor request already pending")
	ErrEmptyQueue            = errors.New("no pending benefactor requests")
	ErrCampaignExpired       = errors.New("campaign deadline has passed")
	ErrGoalNotMet            = errors.New("funding goal not met")
	ErrDeadlineNotPassed     = errors.New("campaign deadline has not passed")
)

// ErrFundraiserNotFound is returned by registry lookups for unknown ids.
var ErrFundraiserNotFound = errors.New("fundraiser not found")
