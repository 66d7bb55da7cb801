// Package schedule projects a program's weekly schedule and its session log
// onto calendar days, and derives streaks and adherence from the result.
//
// Everything here is pure: callers pass "today" explicitly and every function
// reads dates in the location of the times it is given. Projections use the
// location of the range start as the reference timezone, so callers should
// pass today in that same location to the aggregators.
package schedule
