package models

import "time"

type Badge struct {
	Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"default:''"`
	ImageURL    string `json:"imageUrl" gorm:"default:''"`
	XPThreshold int    `json:"xpThreshold" gorm:"column:xp_threshold;default:0"`
}

type UserBadge struct {
	Model
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID   uint      `json:"badgeId" gorm:"uniqueIndex:idx_user_badge;index;not null"`
	AwardedAt time.Time `json:"awardedAt"`
	Badge     *Badge    `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
}

// Certificate is issued when a certification assessment is passed.
type Certificate struct {
	Model
	UserID            uint       `json:"userId" gorm:"index;uniqueIndex:idx_certificate_assessment;not null"`
	CourseID          *uint      `json:"courseId" gorm:"index"`
	TrainingAreaID    *uint      `json:"trainingAreaId" gorm:"index"`
	AssessmentID      *uint      `json:"assessmentId" gorm:"index;uniqueIndex:idx_certificate_assessment"`
	Title             string     `json:"title" gorm:"default:''"`
	CertificateNumber string     `json:"certificateNumber" gorm:"uniqueIndex;not null"`
	IssuedAt          time.Time  `json:"issuedAt"`
	ExpiresAt         *time.Time `json:"expiresAt"`
	ReminderSent      bool       `json:"-" gorm:"default:false"`
}
