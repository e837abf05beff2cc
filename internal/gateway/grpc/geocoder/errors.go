package geocoder

import "errors"

var ErrMalformedResponse = errors.New("malformed geocoder response")
