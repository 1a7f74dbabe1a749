package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrVerticesNotFound = errors.New("no vertices block found")
	ErrIndicesNotFound  = errors.New("no triangle-index block found")
	ErrMalformedToken   = errors.New("malformed numeric token")
	ErrInvalidMesh      = errors.New("invalid mesh")
	ErrInvalidArtifact  = errors.New("invalid intermediate artifact")
)
