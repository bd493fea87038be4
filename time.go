package cellvcs

import "time"

func defaultNowUnix() int64 { return time.Now().Unix() }
