// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package api

import (
	"errors"
	"fmt"
)

// Request parsing errors.
var (
	ErrInvalidParam = errors.New("invalid parameter")
	ErrInvalidBody  = errors.New("invalid request body")
)

// ParamError reports a query or path parameter that could not be parsed.
type ParamError struct {
	Param string
	Value string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %q is not a positive integer", e.Param, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidParam.
func (e *ParamError) Unwrap() error {
	return ErrInvalidParam
}
