// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrStorage wraps any underlying I/O or SQL failure. Fatal only at
	// store initialization; afterwards callers log it and abandon the
	// triggering operation.
	ErrStorage = errors.New("storage error")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails before it reaches the database.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned (wrapped in ErrStorage) when executing
	// a query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan clipboard history row")
)
