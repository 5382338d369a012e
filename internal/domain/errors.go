package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotEditable        = errors.New("campaign is not editable in its current status")
	ErrFilmLocked         = errors.New("film has submitted campaigns, propose an edit instead")
	ErrInvalidInput       = errors.New("invalid input")
)
