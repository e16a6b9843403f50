package models

import "time"

// ProgressFields is shared by every per-level progress table.
type ProgressFields struct {
	Status               ProgressStatus `json:"status" gorm:"type:varchar(20);default:'not_started'"`
	CompletionPercentage float64        `json:"completionPercentage" gorm:"default:0"`
	StartedAt            *time.Time     `json:"startedAt"`
	CompletedAt          *time.Time     `json:"completedAt"`
}

type UserTrainingAreaProgress struct {
	Model
	UserID         uint `json:"userId" gorm:"uniqueIndex:idx_user_training_area;not null"`
	TrainingAreaID uint `json:"trainingAreaId" gorm:"uniqueIndex:idx_user_training_area;index;not null"`
	ProgressFields
}

func (UserTrainingAreaProgress) TableName() string { return "user_training_area_progress" }

type UserModuleProgress struct {
	Model
	UserID   uint `json:"userId" gorm:"uniqueIndex:idx_user_module;not null"`
	ModuleID uint `json:"moduleId" gorm:"uniqueIndex:idx_user_module;index;not null"`
	ProgressFields
}

func (UserModuleProgress) TableName() string { return "user_module_progress" }

type UserCourseProgress struct {
	Model
	UserID   uint `json:"userId" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint `json:"courseId" gorm:"uniqueIndex:idx_user_course;index;not null"`
	ProgressFields
}

func (UserCourseProgress) TableName() string { return "user_course_progress" }

// UserUnitProgress is keyed per course because a unit can be shared by courses.
type UserUnitProgress struct {
	Model
	UserID   uint `json:"userId" gorm:"uniqueIndex:idx_user_unit;not null"`
	UnitID   uint `json:"unitId" gorm:"uniqueIndex:idx_user_unit;index;not null"`
	CourseID uint `json:"courseId" gorm:"uniqueIndex:idx_user_unit;index;not null"`
	ProgressFields
}

func (UserUnitProgress) TableName() string { return "user_unit_progress" }

type UserLearningBlockProgress struct {
	Model
	UserID          uint `json:"userId" gorm:"uniqueIndex:idx_user_block;not null"`
	LearningBlockID uint `json:"learningBlockId" gorm:"uniqueIndex:idx_user_block;index;not null"`
	XPEarned        int  `json:"xpEarned" gorm:"column:xp_earned;default:0"`
	ProgressFields
}

func (UserLearningBlockProgress) TableName() string { return "user_learning_block_progress" }

// Progress exposes the shared fields of any progress row.
func (p *ProgressFields) Progress() *ProgressFields { return p }
