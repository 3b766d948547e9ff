package validator

import "regexp"

// EmailRX is the HTML5 email pattern.
var EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Validator collects named validation errors for a request payload.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no checks have failed.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records an error message for a key, keeping the first one.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message for a key when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Matches reports whether value matches the given pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// PermittedValue reports whether value is present in the permitted list.
func PermittedValue[T comparable](value T, permitted ...T) bool {
	for i := range permitted {
		if value == permitted[i] {
			return true
		}
	}
	return false
}
