package siteseeker

import "errors"

// ErrResponderUnavailable reports that the generative responder collaborator
// failed or is not configured; the user-visible text is already prepared by
// the caller that receives this error.
var ErrResponderUnavailable = errors.New("generative responder unavailable")
