package climate

import (
	"context"
	"time"
)

// Request identifies the data to fetch: one station, an inclusive date
// range, and the set of requested GHCND datatypes.
type Request struct {
	Station   string
	Start     time.Time
	End       time.Time
	DataTypes []string
}

// Source abstracts a climate-data endpoint (token-authenticated query API
// or direct tabular download). Implementations perform exactly one outbound
// call per Fetch and hand the payload back with only transport framing
// stripped; all reshaping happens in Normalize.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Payload, error)
}
