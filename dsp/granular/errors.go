package granular

import "errors"

var errNilDependency = errors.New("grain manager: nil dependency")
