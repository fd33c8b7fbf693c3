// Package migrations holds the embedded goose migrations. Schemas that cannot be
// written as one cross-database SQL file are Go migrations in this package.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
