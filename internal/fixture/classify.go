// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"regexp"
)

// Kind is the category a fixture file falls into.
type Kind int

const (
	Unknown Kind = iota
	Table
	CountMatrix
	CellSets
)

func (k Kind) String() string {
	switch k {
	case Table:
		return "table"
	case CountMatrix:
		return "count-matrix"
	case CellSets:
		return "cell-sets"
	default:
		return "unknown"
	}
}

// Destination says where a fixture file goes. Table is the logical table name
// for Table fixtures; Bucket is set for blobs.
type Destination struct {
	Kind   Kind
	Table  string
	Bucket string
}

type rule struct {
	re    *regexp.Regexp
	kind  Kind
	table string
	// bucket is a format string taking the environment.
	bucket string
}

// Patterns are anchored and mutually exclusive. Order only matters for
// readability.
var rules = []rule{
	{re: regexp.MustCompile(`^mock_experiment.*\.json$`), kind: Table, table: "experiments"},
	{re: regexp.MustCompile(`^mock_samples.*\.json$`), kind: Table, table: "samples"},
	{re: regexp.MustCompile(`^mock_plots_tables.*\.json$`), kind: Table, table: "plots-tables"},
	{re: regexp.MustCompile(`^r\.rds\.gz$`), kind: CountMatrix, bucket: "biomage-source-%s"},
	{re: regexp.MustCompile(`^cell_sets\.json$`), kind: CellSets, bucket: "cell-sets-%s"},
}

// Classify maps a bare filename to its destination in environment env.
func Classify(name, env string) Destination {
	for _, r := range rules {
		if !r.re.MatchString(name) {
			continue
		}
		d := Destination{Kind: r.kind, Table: r.table}
		if r.bucket != "" {
			d.Bucket = fmt.Sprintf(r.bucket, env)
		}
		return d
	}
	return Destination{Kind: Unknown}
}
