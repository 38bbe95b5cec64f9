package services

import (
	"errors"
)

// Business-rule errors surfaced by the engines. Handlers map these onto HTTP
// status codes; none of them leave any state change behind.
var (
	ErrCourseNotCompleted       = errors.New("course not completed")
	ErrRewardAlreadyClaimed     = errors.New("reward already claimed")
	ErrNoWalletAddress          = errors.New("user does not have a wallet address set up")
	ErrAlreadyReferred          = errors.New("user already has a referrer")
	ErrSelfReferral             = errors.New("users cannot refer themselves")
	ErrCertificateAlreadyIssued = errors.New("certificate already issued")
	ErrCourseInactive           = errors.New("course is not active")

	// ErrLedgerFailure wraps a failed ledger operation; the operation as a
	// whole is rolled back when it appears.
	ErrLedgerFailure = errors.New("ledger operation failed")
)
