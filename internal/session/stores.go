package session

import (
	"fmt"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const cleanupInterval = 5 * time.Minute

// NewSQLStore returns an scs store on the application database. The sessions
// table is created by the migrations.
func NewSQLStore(db *sqlx.DB, driver string) (scs.Store, error) {
	switch driver {
	case "mysql":
		return mysqlstore.NewWithCleanupInterval(db.DB, cleanupInterval), nil
	case "postgres":
		return postgresstore.NewWithCleanupInterval(db.DB, cleanupInterval), nil
	case "sqlite3":
		return sqlite3store.NewWithCleanupInterval(db.DB, cleanupInterval), nil
	default:
		return nil, fmt.Errorf("no SQL session store for driver %q", driver)
	}
}

// NewRedisStore returns an scs store on redis.
func NewRedisStore(client *redis.Client) scs.Store {
	return goredisstore.New(client)
}

// NewMemoryStore returns an in-process store. Sessions are lost on restart.
func NewMemoryStore() scs.Store {
	return memstore.NewWithCleanupInterval(cleanupInterval)
}
