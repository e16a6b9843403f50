package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PlacementBeginning = "beginning"
	PlacementEnd       = "end"

	QuestionMCQ       = "mcq"
	QuestionTrueFalse = "true_false"
)

// Assessment is a scored quiz attached to one node of the training hierarchy.
type Assessment struct {
	Model
	TrainingAreaID  *uint         `json:"trainingAreaId" gorm:"index"`
	ModuleID        *uint         `json:"moduleId" gorm:"index"`
	CourseID        *uint         `json:"courseId" gorm:"index"`
	UnitID          *uint         `json:"unitId" gorm:"index"`
	Title           string        `json:"title" gorm:"not null"`
	Description     string        `json:"description" gorm:"type:text;default:''"`
	Placement       string        `json:"placement" gorm:"type:varchar(20);default:'end'"`
	IsCertification bool          `json:"isCertification" gorm:"default:false"`
	PassingScore    *int          `json:"passingScore"`
	MaxRetakes      int           `json:"maxRetakes" gorm:"default:3"`
	TimeLimit       *int          `json:"timeLimit"` // minutes
	XPPoints        int           `json:"xpPoints" gorm:"column:xp_points;default:50"`
	Status          ContentStatus `json:"status" gorm:"type:varchar(20);default:'published'"`
}

type Question struct {
	Model
	AssessmentID  uint           `json:"assessmentId" gorm:"index;not null"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Type          string         `json:"type" gorm:"type:varchar(20);default:'mcq'"`
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer string         `json:"correctAnswer" gorm:"not null"`
	Explanation   string         `json:"explanation" gorm:"type:text;default:''"`
	Order         int            `json:"order" gorm:"column:sort_order;default:0"`
}

type AssessmentAttempt struct {
	Model
	UserID        uint           `json:"userId" gorm:"index;uniqueIndex:idx_attempt_number;not null"`
	AssessmentID  uint           `json:"assessmentId" gorm:"index;uniqueIndex:idx_attempt_number;not null"`
	Score         int            `json:"score"`
	Passed        bool           `json:"passed"`
	Answers       datatypes.JSON `json:"answers"`
	AttemptNumber int            `json:"attemptNumber" gorm:"uniqueIndex:idx_attempt_number;default:1"`
	CompletedAt   time.Time      `json:"completedAt"`
}
