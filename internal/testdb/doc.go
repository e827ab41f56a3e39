// Package testdb provides database helpers for tests.
//
// NewSQLite returns a freshly migrated SQLite database in a temporary
// directory, so store, service and HTTP tests run without any external
// service. GetTestDBWithT connects to the PostgreSQL database named by
// DATABASE_URL (or TASKS_TEST_DB_URL) and skips the test when neither is set;
// those tests live behind the integration build tag.
//
// # Transaction Isolation
//
// WithTx runs a test body inside a transaction that is always rolled back,
// so integration tests can share one PostgreSQL database without cleanup:
//
//	func TestTaskStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := sqlstore.NewSQLTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
