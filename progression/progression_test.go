package progression

import (
	"testing"

	"trainhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() Course {
	return Course{
		Units: []Unit{
			{
				ID: 2, Order: 2,
				Blocks: []Block{{ID: 21, Order: 1}},
			},
			{
				ID: 1, Order: 1,
				Blocks: []Block{{ID: 12, Order: 2}, {ID: 11, Order: 1}},
				Assessments: []Assessment{
					{ID: 101, Placement: models.PlacementEnd},
					{ID: 100, Placement: models.PlacementBeginning},
				},
			},
		},
		Assessments: []Assessment{{ID: 900, Placement: models.PlacementEnd}},
	}
}

func TestLinearizeOrder(t *testing.T) {
	items := Linearize(sampleCourse())

	var got []uint
	for _, it := range items {
		got = append(got, it.ID)
	}
	assert.Equal(t, []uint{100, 11, 12, 101, 21, 900}, got)
	assert.Equal(t, KindAssessment, items[0].Kind)
	assert.Equal(t, KindLearningBlock, items[1].Kind)
	assert.Equal(t, uint(1), items[1].UnitID)
}

func TestAccessibleFirstItemAlwaysOpen(t *testing.T) {
	items := Linearize(sampleCourse())
	assert.True(t, Accessible(items, 0))
	assert.False(t, Accessible(items, 1))
	assert.False(t, Accessible(items, -1))
	assert.False(t, Accessible(items, len(items)))
}

func TestAccessibleFollowsPreviousItem(t *testing.T) {
	c := sampleCourse()
	c.Units[1].Assessments[1].Done = true
	c.Units[1].Blocks[1].Done = true

	items := Linearize(c)
	require.Len(t, items, 6)

	assert.True(t, items[1].Accessible, "block after a passed assessment")
	assert.True(t, items[2].Accessible, "block after a completed block")
	assert.False(t, items[3].Accessible, "assessment after an unfinished block")
}

func TestEmptyPlacementCountsAsEnd(t *testing.T) {
	items := Linearize(Course{Units: []Unit{{
		ID:          1,
		Blocks:      []Block{{ID: 5}},
		Assessments: []Assessment{{ID: 9}},
	}}})
	require.Len(t, items, 2)
	assert.Equal(t, uint(5), items[0].ID)
	assert.Equal(t, uint(9), items[1].ID)
}

func TestFind(t *testing.T) {
	items := Linearize(sampleCourse())
	assert.Equal(t, 1, Find(items, KindLearningBlock, 11))
	assert.Equal(t, -1, Find(items, KindAssessment, 11))
}
