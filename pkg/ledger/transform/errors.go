package transform

import "errors"

// ErrUnknownSubAccountType reports an unrecognized sub-account discriminant.
// This is a format/version mismatch and is never silently skipped.
var ErrUnknownSubAccountType = errors.New("unknown sub-account type")
