package catalog

import "errors"

// ErrNoMatch indicates the fuzzy resolver found no usable candidate. It is
// an expected outcome the caller renders as a normal "no match" response,
// not a failure that aborts the interaction.
var ErrNoMatch = errors.New("no match found")

// MalformedLinkError indicates a shared link could not be split into the
// expected {domain, idType, id} shape. The caller must not attempt
// resolution on a malformed link.
type MalformedLinkError struct {
	Link   string
	Reason string
}

func (e *MalformedLinkError) Error() string {
	msg := "malformed link"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Link != "" {
		msg += " (link: " + e.Link + ")"
	}
	return msg
}

// MalformedResponseError indicates a catalog response was missing the
// expected paging shape. Unrecoverable for the current interaction.
type MalformedResponseError struct {
	Platform string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return e.Platform + " returned a malformed response: " + e.Reason
}

// UpstreamError represents a failure talking to a catalog API, including
// cursor fetches.
type UpstreamError struct {
	Platform  string
	Operation string
	Message   string
	Err       error
}

func (e *UpstreamError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
