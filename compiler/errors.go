package compiler

import "github.com/pkg/errors"

var (
	ErrNoCountries   = errors.New("no countries to process")
	ErrInvalidFamily = errors.New("invalid address family")
	ErrOpenFailed    = errors.New("error opening file")
	ErrOpenOutput    = errors.New("error opening an output file")
	ErrNoUsableData  = errors.New("no usable data in file")
	ErrInvalidCIDR   = errors.New("invalid CIDR")
	ErrWrongFamily   = errors.New("wrong address family")
	ErrWriteFailed   = errors.New("error writing range")
	ErrMissingSink   = errors.New("no output file for country")
	ErrCloseFailed   = errors.New("error closing an output file")
)
