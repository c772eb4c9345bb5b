// Package login serves sign in and sign out for the single configured user.
package login
