package anomaly

import "context"

// ChartRenderer draws the distribution for an input and returns PNG bytes.
type ChartRenderer interface {
	Render(ctx context.Context, in Input) ([]byte, error)
}
