// Package sqlstore implements the store interfaces with database/sql.
//
// The same queries serve PostgreSQL (through the pgx stdlib driver) and
// SQLite (through the pure-Go modernc driver): both accept $N placeholders
// and INSERT ... RETURNING. Schema changes are goose migrations embedded per
// dialect under migrations/.
package sqlstore
