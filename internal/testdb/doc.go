//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Tests connect through DATABASE_URL, apply the embedded goose migrations once
// per connection and run inside a transaction that is rolled back when the
// test ends, so tests can share one database without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        ...
//	    })
//	}
//
// Open skips the test when DATABASE_URL is not set.
package testdb
