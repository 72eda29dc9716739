package repository

import (
	"database/sql"
	"fmt"
)

// requireAffected превращает UPDATE/DELETE без затронутых строк в notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
