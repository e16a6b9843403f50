package models

// Taxonomy tables back the dropdowns of the admin screens and the org
// fields on users.

type Asset struct {
	Model
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Description string     `json:"description" gorm:"default:''"`
	SubAssets   []SubAsset `json:"subAssets,omitempty" gorm:"foreignKey:AssetID"`
}

type SubAsset struct {
	Model
	AssetID uint   `json:"assetId" gorm:"index;not null"`
	Name    string `json:"name" gorm:"not null"`
}

type RoleCategory struct {
	Model
	Name  string `json:"name" gorm:"uniqueIndex;not null"`
	Roles []Role `json:"roles,omitempty" gorm:"foreignKey:CategoryID"`
}

type Role struct {
	Model
	CategoryID uint   `json:"categoryId" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
}

type SeniorityLevel struct {
	Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Rank int    `json:"rank" gorm:"default:0"`
}
