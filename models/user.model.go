package models

import "time"

type User struct {
	Model
	Name             string     `json:"name" gorm:"not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	EID              *string    `json:"eid" gorm:"column:eid;uniqueIndex"`
	PhoneNumber      string     `json:"phoneNumber" gorm:"default:''"`
	Password         string     `json:"-" gorm:"not null"`
	UserType         UserType   `json:"userType" gorm:"type:varchar(20);default:'user';index"`
	Organization     string     `json:"organization" gorm:"default:''"`
	Department       string     `json:"department" gorm:"default:''"`
	Nationality      string     `json:"nationality" gorm:"default:''"`
	Gender           string     `json:"gender" gorm:"default:''"`
	DateOfBirth      *time.Time `json:"dateOfBirth"`
	AssetID          *uint      `json:"assetId" gorm:"index"`
	SubAssetID       *uint      `json:"subAssetId" gorm:"index"`
	RoleCategoryID   *uint      `json:"roleCategoryId" gorm:"index"`
	RoleID           *uint      `json:"roleId" gorm:"index"`
	SeniorityLevelID *uint      `json:"seniorityLevelId" gorm:"index"`
	XPPoints         int        `json:"xpPoints" gorm:"column:xp_points;default:0"`
	IsActive         bool       `json:"isActive" gorm:"default:true"`
	LastLoginAt      *time.Time `json:"lastLoginAt"`
}

// SubAdmin extends a sub_admin user with organisation data.
type SubAdmin struct {
	Model
	UserID           uint   `json:"userId" gorm:"uniqueIndex;not null"`
	JobTitle         string `json:"jobTitle" gorm:"default:''"`
	TotalFrontliners int    `json:"totalFrontliners" gorm:"default:0"`
	User             *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// NormalUser extends a frontliner.
type NormalUser struct {
	Model
	UserID     uint       `json:"userId" gorm:"uniqueIndex;not null"`
	SubAdminID *uint      `json:"subAdminId" gorm:"index"`
	StartDate  *time.Time `json:"startDate"`
}

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

type Invitation struct {
	Model
	Email      string    `json:"email" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"`
	UserType   UserType  `json:"userType" gorm:"type:varchar(20);default:'user'"`
	InvitedBy  uint      `json:"invitedBy" gorm:"index"`
	SubAdminID *uint     `json:"subAdminId" gorm:"index"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type PasswordReset struct {
	Model
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used" gorm:"default:false"`
}
