package anomaly

import "errors"

// ErrDomain marks inputs the normal model cannot be evaluated on
// (non-finite values, sigma <= 0).
var ErrDomain = errors.New("invalid analysis input")

// ErrRender indicates the chart backend failed to produce an image.
var ErrRender = errors.New("chart rendering failed")
