package device

import "context"

// StaticLocator always reports the same position.
type StaticLocator struct {
	Position Position
}

func (l StaticLocator) CurrentPosition(context.Context) (Position, error) {
	return l.Position, nil
}

// FailingLocator always fails with the given reason.
type FailingLocator struct {
	Reason LocationReason
}

func (l FailingLocator) CurrentPosition(context.Context) (Position, error) {
	return Position{}, &LocationError{Reason: l.Reason}
}

// RequestLocator resolves the location a client attached to one request.
// An explicit client reason wins, then client coordinates, then Fallback.
type RequestLocator struct {
	Position *Position
	Reason   LocationReason
	Fallback Locator
}

func (l RequestLocator) CurrentPosition(ctx context.Context) (Position, error) {
	if l.Reason != "" {
		return Position{}, &LocationError{Reason: l.Reason}
	}
	if l.Position != nil {
		return *l.Position, nil
	}
	if l.Fallback != nil {
		return l.Fallback.CurrentPosition(ctx)
	}
	return Position{}, &LocationError{Reason: LocationUnsupported}
}

// DefaultLocator uses configured coordinates when present.
func DefaultLocator(pos *Position) Locator {
	if pos == nil {
		return FailingLocator{Reason: LocationUnsupported}
	}
	return StaticLocator{Position: *pos}
}
