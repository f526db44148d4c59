package repositories

// PartRepository provides load/save access to the persisted parts database.
// Load returns a fresh copy on every call so callers always observe the
// latest external state; Save rewrites the whole database synchronously.
type PartRepository interface {
	Load() (*Database, error)
	Save(db *Database) error
}
