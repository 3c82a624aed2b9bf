package sqlite

import "strings"

// isForeignKeyViolation detects SQLite foreign key constraint failures.
// modernc.org/sqlite surfaces them as plain error strings.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
