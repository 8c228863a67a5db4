package cargo

import "errors"

var ErrCargoNotFound = errors.New("cargo not found")
