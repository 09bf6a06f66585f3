package logger

import "log/slog"

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags records with the emitting subsystem.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserID records the authenticated principal under "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// OrganizationID records the tenant under "organization_id".
func OrganizationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("organization_id", id)
}

// Plan returns a "plan" attribute.
func Plan(plan string) slog.Attr {
	return slog.String("plan", plan)
}

// Action returns an "action" attribute.
func Action(action string) slog.Attr {
	return slog.String("action", action)
}

// Decision records the outcome of a limit check.
func Decision(allowed bool, current, max int64) slog.Attr {
	return slog.Group("decision",
		slog.Bool("allowed", allowed),
		slog.Int64("current", current),
		slog.Int64("max", max),
	)
}
