package models

import "time"

// Model replaces gorm.Model: rows are hard deleted, so there is no DeletedAt column.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeSubAdmin UserType = "sub_admin"
	UserTypeUser     UserType = "user"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeAdmin, UserTypeSubAdmin, UserTypeUser:
		return true
	}
	return false
}

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ContentStatus is the publishing state of training content.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
	ContentArchived  ContentStatus = "archived"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentDraft, ContentPublished, ContentArchived:
		return true
	}
	return false
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Asset{},
		&SubAsset{},
		&RoleCategory{},
		&Role{},
		&SeniorityLevel{},
		&User{},
		&SubAdmin{},
		&NormalUser{},
		&Invitation{},
		&PasswordReset{},
		&TrainingArea{},
		&Module{},
		&Course{},
		&Unit{},
		&CourseUnit{},
		&LearningBlock{},
		&Assessment{},
		&Question{},
		&AssessmentAttempt{},
		&UserTrainingAreaProgress{},
		&UserModuleProgress{},
		&UserCourseProgress{},
		&UserUnitProgress{},
		&UserLearningBlockProgress{},
		&Badge{},
		&UserBadge{},
		&Certificate{},
		&Notification{},
		&MediaFile{},
		&CourseEnrollment{},
	}
}
