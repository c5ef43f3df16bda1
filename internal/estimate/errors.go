package estimate

import "errors"

var errNoClassifier = errors.New("no classifier configured")
