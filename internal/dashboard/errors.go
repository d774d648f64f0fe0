package dashboard

import "errors"

var errNilResult = errors.New("provider returned neither a result nor an error")
