package training

import (
	"context"

	"trainhub/models"
	"trainhub/services/common"
	"trainhub/utils"
)

type UnitContent struct {
	models.Unit
	Order          int                    `json:"order"`
	LearningBlocks []models.LearningBlock `json:"learningBlocks"`
	Assessments    []models.Assessment    `json:"assessments"`
}

// CourseContent is the full tree a learner walks through.
type CourseContent struct {
	Course      models.Course       `json:"course"`
	Units       []UnitContent       `json:"units"`
	Assessments []models.Assessment `json:"assessments"`
}

// Content loads a course with its ordered units, their blocks and the
// assessments attached to the units or the course. With publishedOnly set,
// draft and archived content is left out.
func (s *Service) Content(ctx context.Context, courseID uint, publishedOnly bool) (*CourseContent, error) {
	course, err := common.FindByID[models.Course](ctx, s.db, courseID, "Course")
	if err != nil {
		return nil, err
	}
	if publishedOnly && course.Status != models.ContentPublished {
		return nil, utils.NotFound("Course not found")
	}
	db := s.db.WithContext(ctx)

	var links []models.CourseUnit
	q := db.Preload("Unit").Where("course_id = ?", courseID).Order("sort_order asc, id asc")
	if err := q.Find(&links).Error; err != nil {
		return nil, err
	}

	unitIDs := make([]uint, 0, len(links))
	for _, l := range links {
		unitIDs = append(unitIDs, l.UnitID)
	}

	blocksByUnit := map[uint][]models.LearningBlock{}
	assessmentsByUnit := map[uint][]models.Assessment{}
	if len(unitIDs) > 0 {
		var blocks []models.LearningBlock
		bq := db.Where("unit_id IN ?", unitIDs)
		if publishedOnly {
			bq = bq.Where("status = ?", models.ContentPublished)
		}
		if err := bq.Order("sort_order asc, id asc").Find(&blocks).Error; err != nil {
			return nil, err
		}
		for _, b := range blocks {
			blocksByUnit[b.UnitID] = append(blocksByUnit[b.UnitID], b)
		}

		var assessments []models.Assessment
		aq := db.Where("unit_id IN ?", unitIDs)
		if publishedOnly {
			aq = aq.Where("status = ?", models.ContentPublished)
		}
		if err := aq.Order("id asc").Find(&assessments).Error; err != nil {
			return nil, err
		}
		for _, a := range assessments {
			assessmentsByUnit[*a.UnitID] = append(assessmentsByUnit[*a.UnitID], a)
		}
	}

	out := &CourseContent{Course: *course, Units: make([]UnitContent, 0, len(links))}
	for _, l := range links {
		if l.Unit == nil {
			continue
		}
		if publishedOnly && l.Unit.Status != models.ContentPublished {
			continue
		}
		uc := UnitContent{
			Unit:           *l.Unit,
			Order:          l.Order,
			LearningBlocks: blocksByUnit[l.UnitID],
			Assessments:    assessmentsByUnit[l.UnitID],
		}
		if uc.LearningBlocks == nil {
			uc.LearningBlocks = []models.LearningBlock{}
		}
		if uc.Assessments == nil {
			uc.Assessments = []models.Assessment{}
		}
		out.Units = append(out.Units, uc)
	}

	cq := db.Where("course_id = ? AND unit_id IS NULL", courseID)
	if publishedOnly {
		cq = cq.Where("status = ?", models.ContentPublished)
	}
	if err := cq.Order("id asc").Find(&out.Assessments).Error; err != nil {
		return nil, err
	}
	if out.Assessments == nil {
		out.Assessments = []models.Assessment{}
	}
	return out, nil
}
