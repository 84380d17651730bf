// Package planner searches the cost-minimal visit schedule over the first week
// of a month. One facility is visited per day; the cost of a schedule is the
// consumption recorded at each visited facility plus SwitchPenalty for every
// change of facility between consecutive days.
//
// The search is an exhaustive depth-first enumeration with branch-and-bound
// pruning. It is exponential in the number of facilities and meant for the
// small fleets handled by a single operator.
package planner
