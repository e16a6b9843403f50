package database

import (
	"fmt"

	"gorm.io/gorm"
)

type foreignKey struct {
	table    string
	column   string
	refTable string
	onDelete string
}

// foreignKeys mirrors the cascade rules the services apply on delete.
var foreignKeys = []foreignKey{
	{"sub_assets", "asset_id", "assets", "CASCADE"},
	{"roles", "category_id", "role_categories", "CASCADE"},
	{"users", "asset_id", "assets", "SET NULL"},
	{"users", "sub_asset_id", "sub_assets", "SET NULL"},
	{"users", "role_category_id", "role_categories", "SET NULL"},
	{"users", "role_id", "roles", "SET NULL"},
	{"users", "seniority_level_id", "seniority_levels", "SET NULL"},
	{"sub_admins", "user_id", "users", "CASCADE"},
	{"normal_users", "user_id", "users", "CASCADE"},
	{"normal_users", "sub_admin_id", "sub_admins", "SET NULL"},
	{"password_resets", "user_id", "users", "CASCADE"},
	{"modules", "training_area_id", "training_areas", "CASCADE"},
	{"courses", "module_id", "modules", "CASCADE"},
	{"course_units", "course_id", "courses", "CASCADE"},
	{"course_units", "unit_id", "units", "CASCADE"},
	{"learning_blocks", "unit_id", "units", "CASCADE"},
	{"assessments", "training_area_id", "training_areas", "CASCADE"},
	{"assessments", "module_id", "modules", "CASCADE"},
	{"assessments", "course_id", "courses", "CASCADE"},
	{"assessments", "unit_id", "units", "CASCADE"},
	{"questions", "assessment_id", "assessments", "CASCADE"},
	{"assessment_attempts", "assessment_id", "assessments", "CASCADE"},
	{"assessment_attempts", "user_id", "users", "CASCADE"},
	{"user_training_area_progress", "training_area_id", "training_areas", "CASCADE"},
	{"user_training_area_progress", "user_id", "users", "CASCADE"},
	{"user_module_progress", "module_id", "modules", "CASCADE"},
	{"user_module_progress", "user_id", "users", "CASCADE"},
	{"user_course_progress", "course_id", "courses", "CASCADE"},
	{"user_course_progress", "user_id", "users", "CASCADE"},
	{"user_unit_progress", "unit_id", "units", "CASCADE"},
	{"user_unit_progress", "user_id", "users", "CASCADE"},
	{"user_learning_block_progress", "learning_block_id", "learning_blocks", "CASCADE"},
	{"user_learning_block_progress", "user_id", "users", "CASCADE"},
	{"user_badges", "badge_id", "badges", "CASCADE"},
	{"user_badges", "user_id", "users", "CASCADE"},
	{"certificates", "user_id", "users", "CASCADE"},
	{"certificates", "course_id", "courses", "SET NULL"},
	{"certificates", "training_area_id", "training_areas", "SET NULL"},
	{"certificates", "assessment_id", "assessments", "SET NULL"},
	{"notifications", "user_id", "users", "CASCADE"},
	{"course_enrollments", "course_id", "courses", "CASCADE"},
	{"course_enrollments", "user_id", "users", "CASCADE"},
}

type checkConstraint struct {
	table  string
	name   string
	clause string
}

var checkConstraints = []checkConstraint{
	{"users", "chk_users_user_type", "user_type IN ('admin','sub_admin','user')"},
	{"learning_blocks", "chk_learning_blocks_type", "type IN ('video','image','text')"},
	{"questions", "chk_questions_type", "type IN ('mcq','true_false')"},
	{"assessments", "chk_assessments_placement", "placement IN ('beginning','end')"},
	{"user_training_area_progress", "chk_utap_status", "status IN ('not_started','in_progress','completed')"},
	{"user_module_progress", "chk_ump_status", "status IN ('not_started','in_progress','completed')"},
	{"user_course_progress", "chk_ucp_status", "status IN ('not_started','in_progress','completed')"},
	{"user_unit_progress", "chk_uup_status", "status IN ('not_started','in_progress','completed')"},
	{"user_learning_block_progress", "chk_ulbp_status", "status IN ('not_started','in_progress','completed')"},
}

// ensureConstraints adds the postgres foreign keys and enum checks that
// AutoMigrate does not create. Each statement is idempotent.
func ensureConstraints(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		name := fmt.Sprintf("fk_%s_%s", fk.table, fk.column)
		stmt := fmt.Sprintf(`DO $$ BEGIN
IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
  ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s;
END IF;
END $$;`, name, fk.table, name, fk.column, fk.refTable, fk.onDelete)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", name, err)
		}
	}

	for _, chk := range checkConstraints {
		stmt := fmt.Sprintf(`DO $$ BEGIN
IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
  ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
END IF;
END $$;`, chk.name, chk.table, chk.name, chk.clause)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", chk.name, err)
		}
	}
	return nil
}
