package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrNoDivisions           = crerr.New("no divisions resolved for season")
)
