package odontogram

import "errors"

var (
	ErrOdontogramNotFound  = errors.New("odontogram not found")
	ErrMissingPatientID    = errors.New("patient id is required")
	ErrInvalidToothNumber  = errors.New("tooth number is not valid FDI notation")
	ErrInvalidSurface      = errors.New("invalid tooth surface")
	ErrInvalidFindingState = errors.New("invalid finding state")
	ErrEmptyFinding        = errors.New("finding must reference a lesion or a treatment")
)
