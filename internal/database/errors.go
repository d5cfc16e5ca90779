package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is MariaDB's error number for a unique key violation.
const erDupEntry = 1062

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erDupEntry
}
