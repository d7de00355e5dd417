/*
Package errors implements the error handling used across barrel.

Every failure returned by a ledger operation wraps one of the root errors
declared with Register. Root errors carry a unique code, which allows a host
to distinguish failures without parsing messages.

Use ErrXyz.New or Wrap at the point of creation so that a stack trace is
attached once, at the innermost frame. Test the kind of an error with
ErrXyz.Is(err).

	%s prints the error message
	%+v prints the message followed by the stack trace
*/
package errors
