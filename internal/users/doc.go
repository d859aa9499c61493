// Package users loads the authorized-user list and answers NFC
// authorization checks against it.
//
// The list is a JSON array of {name, uid} records read once at startup;
// a load failure is fatal because the system must not run disarmable by
// default. Tag identifiers are normalized (trimmed, upper-cased) before
// comparison, so readers reporting mixed-case UIDs still match.
package users
