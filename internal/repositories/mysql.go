package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	// mysqlDuplicateEntry is the server error number for unique key violations
	mysqlDuplicateEntry = 1062
	// mysqlForeignKeyViolation is the server error number for a missing parent row
	mysqlForeignKeyViolation = 1452
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// isDuplicateEntry reports whether err is a MySQL unique key violation
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isForeignKeyViolation reports whether err is a MySQL foreign key violation on insert or update
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlForeignKeyViolation
}
