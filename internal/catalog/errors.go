package catalog

import "errors"

// Custom catalog service errors
var (
	// ErrChannelNotFound indicates the requested channel does not exist
	ErrChannelNotFound = errors.New("channel not found")

	// ErrDuplicateChannelName indicates a channel with the same name already exists
	ErrDuplicateChannelName = errors.New("channel name already exists")

	// ErrItemNotFound indicates the requested catalog item does not exist
	ErrItemNotFound = errors.New("catalog item not found")

	// ErrInvalidDuration indicates a catalog item duration is not positive
	ErrInvalidDuration = errors.New("item duration must be positive")

	// ErrInvalidMode indicates an unsupported playback mode
	ErrInvalidMode = errors.New("invalid playback mode")
)

// IsDuplicateName checks if the error is a duplicate channel name error
func IsDuplicateName(err error) bool {
	return errors.Is(err, ErrDuplicateChannelName)
}

// IsChannelNotFound checks if the error is a channel not found error
func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

// IsItemNotFound checks if the error is a catalog item not found error
func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
