package app

import "errors"

// Validation rejections. The state is left unchanged and the message is meant
// for the user.
var (
	ErrSectionNameEmpty    = errors.New("enter section name")
	ErrSectionNameReserved = errors.New("invalid name: \"all\" is reserved")
	ErrSectionExists       = errors.New("section exists")
	ErrSectionNotFound     = errors.New("section not found")
	ErrTaskTextEmpty       = errors.New("enter task text")
	ErrTaskNotFound        = errors.New("task not found")
)

// ErrStorageUnavailable wraps failed slot writes. The in-memory state is kept.
var ErrStorageUnavailable = errors.New("app: storage unavailable")

var rejections = []error{
	ErrSectionNameEmpty,
	ErrSectionNameReserved,
	ErrSectionExists,
	ErrSectionNotFound,
	ErrTaskTextEmpty,
	ErrTaskNotFound,
}

// IsRejection reports whether err is a validation rejection rather than a
// failure.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
