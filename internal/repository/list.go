package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Status groups used by aggregate sub-queries.
const (
	gradedStatusesSQL  = "('GRADED', 'RETURNED')"
	pendingStatusesSQL = "('SUBMITTED', 'GRADING')"
)

// Page is the window applied to a filtered collection after it has been counted.
type Page struct {
	Limit  int
	Offset int
}

// findPage counts every row matched by base, then scans the requested window of
// projection into dest. Aggregates in projection are correlated sub-queries, so they
// always cover all child rows rather than the current page. The window query is
// skipped when offset >= total.
func findPage(base *gorm.DB, page Page, projection, order string, dest interface{}) (int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}

	if total == 0 || int64(page.Offset) >= total {
		return total, nil
	}

	query := base.Session(&gorm.Session{}).Select(projection).Order(order)
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	if err := query.Scan(dest).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// findOne scans a single projected row, reporting gorm.ErrRecordNotFound when nothing matched.
func findOne(base *gorm.DB, projection string, dest interface{}) error {
	result := base.Select(projection).Limit(1).Scan(dest)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern. Wildcards in value match
// literally; queries pair it with ESCAPE '\'.
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(value))) + "%"
}

func deleteByID(db *gorm.DB, model interface{}, id string) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func updateByID(db *gorm.DB, model interface{}, id string, updates map[string]interface{}) error {
	result := db.Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
