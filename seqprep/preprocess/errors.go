package preprocess

import "errors"

// Common error types used across the preprocessing phases
var (
	ErrNotFitted       = errors.New("vocabulary builder has not been fitted")
	ErrUnknownLabel    = errors.New("label not present in label vocabulary")
	ErrUnknownLabelID  = errors.New("label id has no corresponding label")
	ErrLengthMismatch  = errors.New("label sequence length does not match word sequence length")
	ErrLabelOutOfRange = errors.New("label id out of range for one-hot width")
)
