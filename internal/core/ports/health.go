package ports

import "context"

// HealthChecker checks one dependency of the running service: the SQL database,
// redis, or the KV store as a whole. Check returns nil when the dependency answers.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
