package aggspec

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes aggregation configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeRangeFormat indicates a range entry without exactly two
	// colon-separated parts, or a range aggregation with no usable window.
	ErrCodeRangeFormat ConfigErrorCode = "AGG_RANGE_FORMAT"

	// ErrCodeRangeValue indicates a range bound that is not a number.
	ErrCodeRangeValue ConfigErrorCode = "AGG_RANGE_VALUE"
)

// ConfigError reports an invalid entry in the aggregation table.
type ConfigError struct {
	Code    ConfigErrorCode
	Key     string // property key, e.g. "age.ranges"
	Value   string // offending entry
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s (%q)", e.Code, e.Key, e.Message, e.Value)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
