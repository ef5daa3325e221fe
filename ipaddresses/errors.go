package ipaddresses

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned for an unknown address family or a zero step direction.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedAddress is returned when the text before the slash is not an address of the detected family.
	ErrMalformedAddress = errors.New("malformed address")
	// ErrMalformedPrefix is returned when the CIDR suffix is missing or is not an unsigned decimal number.
	ErrMalformedPrefix = errors.New("malformed prefix length")
	// ErrPrefixOutOfRange is returned when the prefix length exceeds the bit width of the family.
	ErrPrefixOutOfRange = errors.New("prefix length out of range")
	// ErrRenderFailed is returned when a range cannot be turned back into text.
	ErrRenderFailed = errors.New("unable to render address range")
)
