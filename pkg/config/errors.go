package config

import "fmt"

func errInvalid(field string) error {
	return fmt.Errorf("%s must be positive", field)
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}

func errInvalidf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
