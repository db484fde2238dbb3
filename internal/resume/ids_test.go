package resume

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAssignIDs_KeepsExisting(t *testing.T) {
	c := &types.ResumeContent{
		Skills: []types.Skill{{ID: "a", Name: "Go"}, {ID: "b", Name: "SQL"}},
	}
	AssignIDs(c)
	assert.Equal(t, "a", c.Skills[0].ID)
	assert.Equal(t, "b", c.Skills[1].ID)
}

func TestAssignIDs_ReplacesDuplicatesAndBlanks(t *testing.T) {
	c := &types.ResumeContent{
		Skills: []types.Skill{{ID: "a"}, {ID: "a"}, {ID: "  "}},
		Experience: []types.Experience{
			{ID: "e", Bullets: []types.BulletPoint{{ID: "x"}, {ID: "x"}}},
			{ID: "e"},
		},
	}
	AssignIDs(c)

	assert.Equal(t, "a", c.Skills[0].ID)
	assert.NotEqual(t, "a", c.Skills[1].ID)
	assert.NotEmpty(t, c.Skills[2].ID)
	assert.NotEqual(t, c.Skills[1].ID, c.Skills[2].ID)

	assert.Equal(t, "e", c.Experience[0].ID)
	assert.NotEqual(t, "e", c.Experience[1].ID)
	assert.Equal(t, "x", c.Experience[0].Bullets[0].ID)
	assert.NotEqual(t, "x", c.Experience[0].Bullets[1].ID)
}

func TestAssignIDs_SameIDAcrossListsAllowed(t *testing.T) {
	c := &types.ResumeContent{
		Skills:   []types.Skill{{ID: "1"}},
		Projects: []types.Project{{ID: "1"}},
	}
	AssignIDs(c)
	assert.Equal(t, "1", c.Skills[0].ID)
	assert.Equal(t, "1", c.Projects[0].ID)
}

func TestReassignIDs(t *testing.T) {
	c := &types.ResumeContent{
		Experience:     []types.Experience{{ID: "e1", Bullets: []types.BulletPoint{{ID: "b1"}}}},
		Education:      []types.Education{{ID: "ed1"}},
		Skills:         []types.Skill{{ID: "s1"}},
		Projects:       []types.Project{{ID: "p1"}},
		Certifications: []types.Certification{{ID: "c1"}},
		References:     []types.Reference{{ID: "r1"}},
	}
	ReassignIDs(c)

	assert.NotEqual(t, "e1", c.Experience[0].ID)
	assert.NotEqual(t, "b1", c.Experience[0].Bullets[0].ID)
	assert.NotEqual(t, "ed1", c.Education[0].ID)
	assert.NotEqual(t, "s1", c.Skills[0].ID)
	assert.NotEqual(t, "p1", c.Projects[0].ID)
	assert.NotEqual(t, "c1", c.Certifications[0].ID)
	assert.NotEqual(t, "r1", c.References[0].ID)
}
