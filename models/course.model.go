package models

// Training hierarchy: TrainingArea -> Module -> Course -> (CourseUnit) -> Unit -> LearningBlock.

type TrainingArea struct {
	Model
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;default:''"`
	ImageURL    string        `json:"imageUrl" gorm:"default:''"`
	Status      ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
}

type Module struct {
	Model
	TrainingAreaID uint          `json:"trainingAreaId" gorm:"index;not null"`
	Name           string        `json:"name" gorm:"not null"`
	Description    string        `json:"description" gorm:"type:text;default:''"`
	ImageURL       string        `json:"imageUrl" gorm:"default:''"`
	Status         ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
}

type Course struct {
	Model
	ModuleID    uint          `json:"moduleId" gorm:"index;not null"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;default:''"`
	ImageURL    string        `json:"imageUrl" gorm:"default:''"`
	Level       string        `json:"level" gorm:"type:varchar(20);default:'beginner'"` // beginner, intermediate, advanced
	Language    string        `json:"language" gorm:"type:varchar(10);default:'en'"`
	Duration    int           `json:"duration" gorm:"default:0"` // minutes
	Status      ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
}

// Unit is standalone and linked to courses through CourseUnit.
type Unit struct {
	Model
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;default:''"`
	Duration    int           `json:"duration" gorm:"default:0"`
	Status      ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
}

type CourseUnit struct {
	Model
	CourseID uint  `json:"courseId" gorm:"uniqueIndex:idx_course_unit;not null"`
	UnitID   uint  `json:"unitId" gorm:"uniqueIndex:idx_course_unit;index;not null"`
	Order    int   `json:"order" gorm:"column:sort_order;default:0"`
	Unit     *Unit `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

type BlockType string

const (
	BlockVideo BlockType = "video"
	BlockImage BlockType = "image"
	BlockText  BlockType = "text"
)

func (t BlockType) Valid() bool {
	return t == BlockVideo || t == BlockImage || t == BlockText
}

type LearningBlock struct {
	Model
	UnitID      uint          `json:"unitId" gorm:"index;not null"`
	Type        BlockType     `json:"type" gorm:"type:varchar(10);not null"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;default:''"`
	Content     string        `json:"content" gorm:"type:text;default:''"`
	VideoURL    string        `json:"videoUrl" gorm:"default:''"`
	ImageURL    string        `json:"imageUrl" gorm:"default:''"`
	Order       int           `json:"order" gorm:"column:sort_order;default:0"`
	XPPoints    int           `json:"xpPoints" gorm:"column:xp_points;default:10"`
	Duration    int           `json:"duration" gorm:"default:0"`
	Status      ContentStatus `json:"status" gorm:"type:varchar(20);default:'published'"`
}
