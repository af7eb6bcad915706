// Package testdb provides a throwaway SurrealDB namespace for tests of the
// SurrealDB session store.
//
// # Setup
//
//	func TestSurrealStore(t *testing.T) {
//	    tdb := testdb.New(t)
//	    store := repository.NewSurrealTokenStore(tdb.DB, "default")
//	}
//
// # Environment
//
// Connection settings come from TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER and
// TEST_DB_PASSWORD. Tests are skipped when the database cannot be reached or
// TEST_DB_SKIP is set.
//
// # Isolation
//
// Each call gets its own namespace with the schema applied, and the namespace
// is removed in t.Cleanup.
package testdb
