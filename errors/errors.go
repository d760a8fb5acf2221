package rassegna_errors

import "errors"

var (
	ErrMissingFolderID    = errors.New("drive folder id not configured")
	ErrOverwriteDelete    = errors.New("could not delete existing artifact for overwrite")
	ErrMissingCredentials = errors.New("google credentials not configured")
)
