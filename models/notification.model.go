package models

import "time"

type Notification struct {
	Model
	UserID  uint       `json:"userId" gorm:"index;not null"`
	Title   string     `json:"title" gorm:"not null"`
	Message string     `json:"message" gorm:"type:text;default:''"`
	Type    string     `json:"type" gorm:"type:varchar(30);default:'general'"`
	IsRead  bool       `json:"isRead" gorm:"default:false;index"`
	ReadAt  *time.Time `json:"readAt"`
}

type MediaFile struct {
	Model
	FileName     string `json:"fileName" gorm:"not null"`
	OriginalName string `json:"originalName" gorm:"default:''"`
	MimeType     string `json:"mimeType" gorm:"default:''"`
	Size         int64  `json:"size" gorm:"default:0"`
	Category     string `json:"category" gorm:"type:varchar(20);index"` // images, documents, videos, audio
	Path         string `json:"-" gorm:"not null"`
	URL          string `json:"url" gorm:"column:url;not null"`
	UploadedBy   uint   `json:"uploadedBy" gorm:"index"`
}

type CourseEnrollment struct {
	Model
	UserID             uint           `json:"userId" gorm:"uniqueIndex:idx_enrollment;not null"`
	CourseID           uint           `json:"courseId" gorm:"uniqueIndex:idx_enrollment;index;not null"`
	Status             ProgressStatus `json:"status" gorm:"type:varchar(20);default:'not_started'"`
	ProgressPercentage float64        `json:"progressPercentage" gorm:"default:0"`
	EnrolledAt         time.Time      `json:"enrolledAt"`
	CompletedAt        *time.Time     `json:"completedAt"`
	Course             *Course        `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
