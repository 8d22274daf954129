package models

// Status represents the outcome of a library mutation
type Status string

const (
	StatusOK           Status = "OK"
	StatusNotFound     Status = "NOT_FOUND"
	StatusAlreadyAdded Status = "ALREADY_ADDED"
)

// Sort modes for listing a user's library
const (
	SortInsertion  = 0 // insertion order; callers reverse it for most-recent-first
	SortYear       = 1
	SortRatingDesc = 2
	SortRatingAsc  = 3
	SortTitle      = 4
)
