package lottery

import "errors"

var (
	ErrAlreadyRegistered  = errors.New("lottery: already registered")
	ErrNotRegistered      = errors.New("lottery: not registered")
	ErrInvalidEntryNumber = errors.New("lottery: invalid entry number")
	ErrRandomnessNotReady = errors.New("lottery: randomness not ready")
	ErrNoMatch            = errors.New("lottery: entry does not match round randomness")
	ErrInvalidAmount      = errors.New("lottery: invalid amount")
	ErrNoParticipants     = errors.New("lottery: no participants")
	ErrUnauthorized       = errors.New("lottery: unauthorized caller")
	ErrTransferFailed     = errors.New("lottery: token transfer failed")
)
