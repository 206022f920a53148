package performance

import "errors"

var (
	ErrInvalidWindow = errors.New("window must be one of week, month, year, all")
)
