package raster

import "errors"

var (
	ErrDecode             = errors.New("decode error")
	ErrEncode             = errors.New("encode error")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrMissingResource    = errors.New("missing resource")
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrTimezone           = errors.New("unknown timezone")
)
