package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// containsPattern builds a case-insensitive LIKE operand for a substring match.
// Wildcards in term match literally; the operand must be used with ESCAPE '!'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// matchAny keeps the rows where any of exprs contains term. Expressions are
// compared through LOWER() so the same SQL runs on every dialect.
func matchAny(db *gorm.DB, term string, exprs ...string) *gorm.DB {
	pattern := containsPattern(term)
	terms := make([]string, len(exprs))
	args := make([]interface{}, len(exprs))
	for i, expr := range exprs {
		terms[i] = "LOWER(" + expr + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(terms, " OR ")+")", args...)
}
