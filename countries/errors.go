package countries

import "github.com/pkg/errors"

var (
	ErrOpenFailed        = errors.New("error opening file")
	ErrNoUsableData      = errors.New("no usable data in file")
	ErrFileTooLong       = errors.New("file too long")
	ErrUnsortedGeonameID = errors.New("invalid, duplicate, or unsorted geoname_id")
	ErrReservedGeonameID = errors.New("reserved geoname_id")
)
