// Package window extracts, per facility, the consumption of the first days of
// a month. The resulting Window is the cost table read by the planner.
package window
