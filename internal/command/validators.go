// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/tfctl/inframock/internal/objectstore"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// URLValidator accepts absolute http(s) URLs.
func URLValidator(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL, got %q", s)
	}
	return nil
}

// Stack, table and bucket names are built from the environment, so it is held
// to the bucket naming rules.
var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// NameValidator accepts lower case names usable in resource names.
func NameValidator(value any) error {
	s, _ := value.(string)
	if !nameRe.MatchString(s) {
		return fmt.Errorf("must be lower case letters, digits and dashes, got %q", s)
	}
	return nil
}

// SizeValidator accepts human sizes such as 20MB.
func SizeValidator(value any) error {
	s, _ := value.(string)
	_, err := objectstore.ParseThreshold(s)
	return err
}
