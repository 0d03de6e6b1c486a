package database

import "errors"

var (
	// ErrNotReady indicates the startup ping failed or has not run.
	ErrNotReady = errors.New("database not ready")
	// ErrNameRequired indicates an enabled database with no name.
	ErrNameRequired = errors.New("name required")
	// ErrUserRequired indicates an enabled database with no user.
	ErrUserRequired = errors.New("user required")
)
