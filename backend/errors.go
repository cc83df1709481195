package backend

import "errors"

// Failure taxonomy for one user interaction. Every external call is wrapped
// so its failure degrades to one of these; the flow controller maps each to
// exactly one user-visible message.
var (
	// ErrInvalidLink means the input text matched no recognized link pattern.
	ErrInvalidLink = errors.New("invalid link")

	// ErrNotFound means the link was well-formed but the catalog has no such object.
	ErrNotFound = errors.New("not found")

	// ErrUpstream means the catalog API could not be reached or refused the request.
	ErrUpstream = errors.New("upstream error")

	// ErrNoSource means every configured audio source failed or timed out.
	ErrNoSource = errors.New("no source available")

	// ErrStaleState means a quality selection arrived with no pending metadata
	// (typically after a restart cleared the session store).
	ErrStaleState = errors.New("stale session state")

	// ErrDelivery means the audio file vanished or the outbound send failed.
	ErrDelivery = errors.New("delivery failed")

	// ErrNoMatch is returned by a single source when its search found nothing.
	// It is internal to the waterfall and never reaches the user directly.
	ErrNoMatch = errors.New("no match")
)
