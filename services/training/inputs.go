package training

import "trainhub/models"

type TrainingAreaInput struct {
	Name        string               `json:"name" validate:"required,min=2,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	ImageURL    string               `json:"imageUrl" validate:"omitempty,max=500"`
	Status      models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type TrainingAreaUpdate struct {
	Name        *string               `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string               `json:"imageUrl" validate:"omitempty,max=500"`
	Status      *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type ModuleInput struct {
	TrainingAreaID uint                 `json:"trainingAreaId" validate:"required"`
	Name           string               `json:"name" validate:"required,min=2,max=200"`
	Description    string               `json:"description" validate:"max=5000"`
	ImageURL       string               `json:"imageUrl" validate:"omitempty,max=500"`
	Status         models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type ModuleUpdate struct {
	TrainingAreaID *uint                 `json:"trainingAreaId" validate:"omitempty,min=1"`
	Name           *string               `json:"name" validate:"omitempty,min=2,max=200"`
	Description    *string               `json:"description" validate:"omitempty,max=5000"`
	ImageURL       *string               `json:"imageUrl" validate:"omitempty,max=500"`
	Status         *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CourseInput struct {
	ModuleID    uint                 `json:"moduleId" validate:"required"`
	Name        string               `json:"name" validate:"required,min=2,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	ImageURL    string               `json:"imageUrl" validate:"omitempty,max=500"`
	Level       string               `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language    string               `json:"language" validate:"omitempty,max=10"`
	Duration    int                  `json:"duration" validate:"min=0"`
	Status      models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CourseUpdate struct {
	ModuleID    *uint                 `json:"moduleId" validate:"omitempty,min=1"`
	Name        *string               `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string               `json:"imageUrl" validate:"omitempty,max=500"`
	Level       *string               `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language    *string               `json:"language" validate:"omitempty,max=10"`
	Duration    *int                  `json:"duration" validate:"omitempty,min=0"`
	Status      *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// UnitInput creates a standalone unit, optionally linked to a course.
type UnitInput struct {
	Name        string               `json:"name" validate:"required,min=2,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	Duration    int                  `json:"duration" validate:"min=0"`
	Status      models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
	CourseID    *uint                `json:"courseId" validate:"omitempty,min=1"`
}

type UnitUpdate struct {
	Name        *string               `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=5000"`
	Duration    *int                  `json:"duration" validate:"omitempty,min=0"`
	Status      *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CourseUnitInput struct {
	UnitID uint `json:"unitId" validate:"required"`
	Order  *int `json:"order" validate:"omitempty,min=0"`
}

// ReorderInput lists the linked unit ids in their new order.
type ReorderInput struct {
	UnitIDs []uint `json:"unitIds" validate:"required,min=1,dive,required"`
}

type LearningBlockInput struct {
	UnitID      uint                 `json:"unitId" validate:"required"`
	Type        models.BlockType     `json:"type" validate:"required,oneof=video image text"`
	Title       string               `json:"title" validate:"required,min=2,max=200"`
	Description string               `json:"description" validate:"max=5000"`
	Content     string               `json:"content"`
	VideoURL    string               `json:"videoUrl" validate:"omitempty,max=500"`
	ImageURL    string               `json:"imageUrl" validate:"omitempty,max=500"`
	Order       *int                 `json:"order" validate:"omitempty,min=0"`
	XPPoints    *int                 `json:"xpPoints" validate:"omitempty,min=0"`
	Duration    int                  `json:"duration" validate:"min=0"`
	Status      models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type LearningBlockUpdate struct {
	Type        *models.BlockType     `json:"type" validate:"omitempty,oneof=video image text"`
	Title       *string               `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string               `json:"description" validate:"omitempty,max=5000"`
	Content     *string               `json:"content"`
	VideoURL    *string               `json:"videoUrl" validate:"omitempty,max=500"`
	ImageURL    *string               `json:"imageUrl" validate:"omitempty,max=500"`
	Order       *int                  `json:"order" validate:"omitempty,min=0"`
	XPPoints    *int                  `json:"xpPoints" validate:"omitempty,min=0"`
	Duration    *int                  `json:"duration" validate:"omitempty,min=0"`
	Status      *models.ContentStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ListFilter narrows list endpoints by parent and status.
type ListFilter struct {
	TrainingAreaID uint                 `query:"trainingAreaId"`
	ModuleID       uint                 `query:"moduleId"`
	CourseID       uint                 `query:"courseId"`
	UnitID         uint                 `query:"unitId"`
	Status         models.ContentStatus `query:"status" validate:"omitempty,oneof=draft published archived"`
	Search         string               `query:"search" validate:"omitempty,max=100"`
}

func statusOr(s models.ContentStatus, def models.ContentStatus) models.ContentStatus {
	if s == "" {
		return def
	}
	return s
}
