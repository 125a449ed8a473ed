package state

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile("^[0-9A-Za-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	if s == string(Local) {
		return fmt.Errorf("%s is reserved", s)
	}
	return nil
}

func AddressValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid address, must match pattern %s", s, namePattern.String())
	}
	return nil
}
