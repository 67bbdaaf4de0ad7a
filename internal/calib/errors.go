package calib

import "errors"

var (
	// ErrConfiguration marks a defect in calibration setup: unknown
	// tagger/channel/flavor, a missing curve, or a malformed table.
	// These are fatal; a bad table would silently corrupt every weight.
	ErrConfiguration = errors.New("invalid calibration configuration")

	// ErrDomain marks an unphysical momentum input (negative or non-finite).
	ErrDomain = errors.New("momentum outside physical domain")
)
