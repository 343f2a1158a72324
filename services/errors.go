package services

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrContestNotFound       = errors.New("contest not found")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrAlreadyRegistered     = errors.New("already registered")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidStatus         = errors.New("invalid contest status")
	ErrNotOwner              = errors.New("caller does not own this resource")
	ErrWinnerAlreadyDeclared = errors.New("winner already declared")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrContestClosed         = errors.New("contest is not open for registration")
	ErrPaymentRequired       = errors.New("contest requires payment")
	ErrPaymentInitFailed     = errors.New("payment session could not be created")
	ErrPaymentNotCompleted   = errors.New("payment not completed")
	ErrVerificationFailed    = errors.New("payment verification failed")
)

var ErrInvalidFilter = errors.New("invalid leaderboard filter")
