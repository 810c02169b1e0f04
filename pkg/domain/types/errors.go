package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify every failure surfaced to the caller. The remote API
// has only one error shape, so classification happens at the adapter boundary
// and callers branch on tags, not on concrete error values.
var (
	// ErrTagAlreadyExists means the resource identifier is already taken
	// on the remote side (e.g. team create with a duplicate name).
	ErrTagAlreadyExists = goerr.NewTag("already_exists")

	// ErrTagNotFound means the identifier could not be resolved remotely.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagInvalidInput means the request violated the declared schema or
	// was rejected by the remote API with a 400 response.
	ErrTagInvalidInput = goerr.NewTag("invalid_input")

	// ErrTagInvalidState means the resource exists but its lifecycle phase
	// does not allow the operation (e.g. updating a pending invitation).
	ErrTagInvalidState = goerr.NewTag("invalid_state")

	// ErrTagAuthFailed means the remote API rejected the access token.
	ErrTagAuthFailed = goerr.NewTag("authentication_failed")

	// ErrTagRemoteServer means the remote API answered with a 5xx status.
	ErrTagRemoteServer = goerr.NewTag("remote_server_error")

	// ErrTagTransport covers network failures and undocumented statuses.
	ErrTagTransport = goerr.NewTag("transport_failure")
)

func IsAlreadyExists(err error) bool { return goerr.HasTag(err, ErrTagAlreadyExists) }
func IsNotFound(err error) bool      { return goerr.HasTag(err, ErrTagNotFound) }
func IsInvalidInput(err error) bool  { return goerr.HasTag(err, ErrTagInvalidInput) }
func IsInvalidState(err error) bool  { return goerr.HasTag(err, ErrTagInvalidState) }
func IsAuthFailed(err error) bool    { return goerr.HasTag(err, ErrTagAuthFailed) }
func IsRemoteServer(err error) bool  { return goerr.HasTag(err, ErrTagRemoteServer) }
func IsTransport(err error) bool     { return goerr.HasTag(err, ErrTagTransport) }

// IsExpected reports whether the error is a common provisioning outcome that
// should be logged as a warning rather than an error.
func IsExpected(err error) bool {
	return IsAlreadyExists(err) || IsNotFound(err)
}
