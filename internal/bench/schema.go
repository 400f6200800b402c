package bench

// schemaStatements drops and recreates the benchmark tables.
func schemaStatements() []string {
	return []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA synchronous = NORMAL`,

		`DROP TABLE IF EXISTS blobs`,
		`DROP TABLE IF EXISTS users`,

		`CREATE TABLE users (
			id INTEGER PRIMARY KEY NOT NULL,
			created INTEGER NOT NULL,
			email TEXT NOT NULL,
			active INTEGER NOT NULL
		)`,
		`CREATE INDEX users_created ON users(created)`,

		`CREATE TABLE blobs (
			id INTEGER PRIMARY KEY NOT NULL,
			data BLOB NOT NULL
		)`,
	}
}
