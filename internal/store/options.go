package store

// Opts holds configuration for database-backed stores.
type Opts struct {
	DSN string
}

// Option configures a database-backed store.
type Option func(*Opts)

// WithDSN sets the database DSN.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}
