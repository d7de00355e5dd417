/*
Package barreltest provides helpers for testing the ledger packages.
*/
package barreltest
