// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fixture walks a tree of per-experiment fixture folders and routes
// each file to the table store or the object store by its name.
//
// The data root looks like:
//
//	<root>/<experiment id>/mock_experiment.json
//	<root>/<experiment id>/mock_samples.json
//	<root>/<experiment id>/r.rds.gz
//
// Files whose names match no known pattern are logged and skipped.
package fixture
