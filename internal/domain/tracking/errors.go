package tracking

import "errors"

var (
	ErrNoPosition = errors.New("no position recorded for staff member")
)
