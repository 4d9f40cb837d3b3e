package models

import (
	"fmt"
	"strings"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

// NewOptionType normalizes vendor casing ("CALL", "Call") before validating.
func NewOptionType(value string) (OptionType, error) {
	o := OptionType(strings.ToLower(strings.TrimSpace(value)))
	if err := o.Validate(); err != nil {
		return "", err
	}

	return o, nil
}
