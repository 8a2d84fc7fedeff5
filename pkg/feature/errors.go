package feature

import "errors"

var (
	ErrFlagNotFound    = errors.New("feature: flag not found")
	ErrInvalidFlag     = errors.New("feature: invalid flag")
	ErrInvalidStrategy = errors.New("feature: invalid rollout strategy")
	ErrFlagExists      = errors.New("feature: flag already exists")
)
