package entity

import "errors"

var (
	// Backend errors
	ErrUnknownOperation = errors.New("unknown image operation")
	ErrInvalidParameter = errors.New("invalid operation parameter")
	ErrMissingInput     = errors.New("missing input image")

	// Pipeline errors
	ErrRenderFailed = errors.New("render failed")

	// Service errors
	ErrImageNotFound        = errors.New("image not found")
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrUnsupportedFormat    = errors.New("unsupported image format")
	ErrUnresolvedImageRef   = errors.New("unresolved image reference")
	ErrImageTooLarge        = errors.New("image too large")
)
