package model

import "errors"

var (
	ErrLastFileNotFound  = errors.New("last file marker not found")
	ErrEmptyPath         = errors.New("path is empty")
	ErrWatcherClosed     = errors.New("file watcher is closed")
	ErrNoActiveWatch     = errors.New("no active watch")
	ErrDialogUnavailable = errors.New("native dialog unavailable")
)
