package lesion

import "errors"

var (
	ErrLesionNotFound      = errors.New("lesion not found")
	ErrLesionAlreadyExists = errors.New("lesion with this code already exists")
)
