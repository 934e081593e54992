package usecase

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the rows the next query reads until tx ends. SQLite has no
// row locks and drops the clause; its single writer serializes instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
