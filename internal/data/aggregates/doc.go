// Package aggregates implements the course catalog write boundaries on GORM.
//
// Every write takes the course family lock, runs in one transaction and reports to Hooks.
// Reads go straight to the repos in internal/data/repos.
package aggregates
