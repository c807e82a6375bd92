package database

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a validated page request. Use NewPage to build one.
type Page struct {
	Number int
	Limit  int
}

// NewPage falls back to the defaults for values below 1 and caps the limit at MaxLimit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(p Page, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	return Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Number < totalPages,
		HasPrev:    p.Number > 1,
	}
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// search matches term case-insensitively as a substring of any of the given column expressions.
// An empty term leaves the query untouched.
func search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// list counts the rows matched by scopes, then fetches one ordered page of them into dest.
func list(db *gorm.DB, model any, dest any, page Page, order string, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := db.Model(model).Scopes(scopes...).Count(&total).Error; err != nil {
		return 0, translate(err)
	}

	err := db.Model(model).
		Scopes(scopes...).
		Scopes(paginate(page)).
		Order(order).
		Find(dest).Error
	return total, translate(err)
}
