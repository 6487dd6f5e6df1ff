package search

import "errors"

// Sentinel errors returned by the search package.
var (
	// ErrDimensionMismatch indicates start and goal fields of different size.
	ErrDimensionMismatch = errors.New("search: start and goal dimensions differ")

	// ErrSearchExhausted indicates the frontier emptied before a goal or a
	// meeting point was found. It is final; the engine does not retry.
	ErrSearchExhausted = errors.New("search: frontier exhausted without reaching goal")

	// ErrStopped indicates the engine observed a stop request or a done
	// context at a step boundary.
	ErrStopped = errors.New("search: stopped")

	// ErrBadScale indicates a sampling scale below 1.
	ErrBadScale = errors.New("search: scale must be >= 1")

	// ErrBadBranching indicates a branching factor below 1.
	ErrBadBranching = errors.New("search: branching factor must be >= 1")

	// ErrBadBudget indicates a step budget below 1.
	ErrBadBudget = errors.New("search: step budget must be >= 1")

	// ErrNoWinner indicates a path was requested before a goal was found.
	ErrNoWinner = errors.New("search: no winning node")
)
