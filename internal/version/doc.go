// Package version parses and orders dotted package versions.
//
// Versions are dot-separated sequences of numeric or alphanumeric
// segments with a total order. Selection against a user request follows
// a prefix-compatibility rule: a request of "2.3" is satisfied by any
// "2.3.x" candidate, and the maximum qualifying candidate wins.
package version
