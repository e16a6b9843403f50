package report

import (
	"gorm.io/gorm"
)

// overviewTables are the tables whose writes change the overview counts.
// Progress rows are left to the cache TTL since learners write them constantly.
var overviewTables = map[string]bool{
	"users":              true,
	"assets":             true,
	"training_areas":     true,
	"modules":            true,
	"courses":            true,
	"units":              true,
	"learning_blocks":    true,
	"assessments":        true,
	"certificates":       true,
	"course_enrollments": true,
}

// InvalidateOnWrite registers gorm callbacks that drop the cached overview
// whenever a user, asset or content row is created, updated or deleted.
func (s *Service) InvalidateOnWrite(db *gorm.DB) error {
	const name = "report:invalidate_overview"
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register(name, s.afterWrite); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register(name, s.afterWrite); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register(name, s.afterWrite)
}

func (s *Service) afterWrite(tx *gorm.DB) {
	if tx.Error != nil || tx.RowsAffected == 0 || !overviewTables[tx.Statement.Table] {
		return
	}
	s.InvalidateOverview(tx.Statement.Context)
}
