package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrEmptyDataset     = errors.New("dataset is empty")
	ErrInsufficientData = errors.New("insufficient data to build signature")
	ErrUnsupportedFile  = errors.New("unsupported file format")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
)
