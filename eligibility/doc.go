// Package eligibility holds the admission rules shared by the API and the Go client:
// catalog filtering, per-university eligibility, the email shape check, the minimum
// requirement check and the bounded comparison selection.
//
// Everything here is pure. Functions take values, return values and never touch
// storage or the network, so the server and any client apply exactly the same rules.
package eligibility
