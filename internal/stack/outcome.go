// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stack

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
)

// Outcome is the non-fatal result of a create-stack request. Fatal results
// are carried as errors alongside the zero Outcome.
type Outcome int

const (
	// Created means the backend accepted a new stack.
	Created Outcome = iota + 1
	// AlreadyExists means a stack with the same name was already present.
	AlreadyExists
)

const alreadyExistsCode = "AlreadyExistsException"

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// Classify folds a CreateStack error into an Outcome. A nil error is Created,
// an AlreadyExists service error is tolerated, and everything else is
// returned unchanged as fatal.
func Classify(err error) (Outcome, error) {
	if err == nil {
		return Created, nil
	}
	if isAlreadyExists(err) {
		return AlreadyExists, nil
	}
	return 0, err
}

func isAlreadyExists(err error) bool {
	var aee *types.AlreadyExistsException
	if errors.As(err, &aee) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == alreadyExistsCode
}
