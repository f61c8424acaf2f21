package model

import "time"

// timeNow is a package-level var to allow freezing time in tests.
var timeNow = time.Now
