// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stack provisions the CloudFormation stacks (tables, buckets and
// topics) that the fixtures are later loaded into. Creating a stack that
// already exists is not an error, so provisioning can be repeated against a
// long-lived mock backend.
package stack
