// Package progression flattens a course into the sequence a learner walks
// and decides which items are unlocked.
package progression

import (
	"sort"

	"trainhub/models"
)

type ItemKind string

const (
	KindLearningBlock ItemKind = "learning_block"
	KindAssessment    ItemKind = "assessment"
)

type Block struct {
	ID    uint
	Title string
	Order int
	Done  bool
}

type Assessment struct {
	ID        uint
	Title     string
	Placement string
	Done      bool
}

type Unit struct {
	ID          uint
	Name        string
	Order       int
	Blocks      []Block
	Assessments []Assessment
}

// Course holds units plus assessments attached to the course itself.
type Course struct {
	Units       []Unit
	Assessments []Assessment
}

// Item is one step of the linearized course.
type Item struct {
	Kind       ItemKind `json:"kind"`
	ID         uint     `json:"id"`
	UnitID     uint     `json:"unitId,omitempty"`
	Title      string   `json:"title"`
	Done       bool     `json:"done"`
	Accessible bool     `json:"accessible"`
}

func assessmentsAt(list []Assessment, placement string, unitID uint) []Item {
	var items []Item
	for _, a := range list {
		p := a.Placement
		if p == "" {
			p = models.PlacementEnd
		}
		if p != placement {
			continue
		}
		items = append(items, Item{Kind: KindAssessment, ID: a.ID, UnitID: unitID, Title: a.Title, Done: a.Done})
	}
	return items
}

// Linearize orders course-level beginning assessments, then every unit by its
// course order (beginning assessments, blocks by order, end assessments), then
// course-level end assessments.
func Linearize(c Course) []Item {
	units := make([]Unit, len(c.Units))
	copy(units, c.Units)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Order < units[j].Order })

	items := assessmentsAt(c.Assessments, models.PlacementBeginning, 0)
	for _, u := range units {
		items = append(items, assessmentsAt(u.Assessments, models.PlacementBeginning, u.ID)...)

		blocks := make([]Block, len(u.Blocks))
		copy(blocks, u.Blocks)
		sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })
		for _, b := range blocks {
			items = append(items, Item{Kind: KindLearningBlock, ID: b.ID, UnitID: u.ID, Title: b.Title, Done: b.Done})
		}

		items = append(items, assessmentsAt(u.Assessments, models.PlacementEnd, u.ID)...)
	}
	items = append(items, assessmentsAt(c.Assessments, models.PlacementEnd, 0)...)

	Evaluate(items)
	return items
}

// Accessible reports whether item i is unlocked: the first item always is,
// any other item once its predecessor is done.
func Accessible(items []Item, i int) bool {
	if i < 0 || i >= len(items) {
		return false
	}
	if i == 0 {
		return true
	}
	return items[i-1].Done
}

// Evaluate sets Accessible on every item.
func Evaluate(items []Item) {
	for i := range items {
		items[i].Accessible = Accessible(items, i)
	}
}

// Find returns the index of the item, or -1.
func Find(items []Item, kind ItemKind, id uint) int {
	for i, it := range items {
		if it.Kind == kind && it.ID == id {
			return i
		}
	}
	return -1
}
