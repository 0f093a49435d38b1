package repo

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern lowercases term, escapes LIKE metacharacters and wraps it for substring matching.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// ContainsAny matches rows where any of columns contains term, case-insensitively.
// An empty term matches every row; whitespace is matched literally.
func ContainsAny(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := LikePattern(term)
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, column := range columns {
			clauses[i] = "LOWER(" + column + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
