package domain

import "errors"

// Terminal failure categories. Sinks wrap the underlying cause with one of these.
var (
	ErrConnection    = errors.New("connection error")
	ErrSchema        = errors.New("schema provisioning error")
	ErrSerialization = errors.New("serialization error")
	ErrWrite         = errors.New("write error")
)
