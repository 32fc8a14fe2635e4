package treatment

import "errors"

var (
	ErrTreatmentNotFound      = errors.New("treatment not found")
	ErrTreatmentAlreadyExists = errors.New("treatment with this code already exists")
	ErrInvalidDuration        = errors.New("treatment duration must be at least one slot")
)
