package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor with this license number already exists")
	ErrDoctorInactive      = errors.New("doctor is not active")
	ErrOutsideAvailability = errors.New("slot is outside the doctor's availability")
	ErrInvalidSpecialty    = errors.New("invalid specialty")
)
