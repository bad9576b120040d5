package driven

import "time"

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}
