package common

import "errors"

var (
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrTimeRegression occurs when a clock or data provider is asked to move
	// backwards in time. It indicates a caller bug and is fatal to a run
	ErrTimeRegression = errors.New("time cannot move backwards")
	// ErrUnknownInstrument occurs when a subscription or order references an
	// instrument that is not managed by the receiving client
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrUnknownBarType occurs when a subscription references a bar type whose
	// instrument is not managed by the receiving client
	ErrUnknownBarType = errors.New("unknown bar type")
)
