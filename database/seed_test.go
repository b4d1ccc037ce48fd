package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSample_IsConsistent(t *testing.T) {
	d := Sample(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	institutions := map[string]bool{}
	for _, inst := range d.Institutions {
		assert.NotEmpty(t, inst.ID)
		institutions[inst.ID] = true
	}
	courses := map[string]bool{}
	for _, c := range d.Courses {
		assert.True(t, institutions[c.InstitutionID], "course %s has unknown institution", c.Title)
		courses[c.ID] = true
	}
	users := map[string]bool{}
	for _, u := range d.Users {
		users[u.ID] = true
	}

	for _, r := range d.Reviews {
		assert.True(t, users[r.UserID])
		assert.True(t, (r.InstitutionID == nil) != (r.CourseID == nil), "review must target exactly one entity")
		if r.InstitutionID != nil {
			assert.True(t, institutions[*r.InstitutionID])
		}
		if r.CourseID != nil {
			assert.True(t, courses[*r.CourseID])
		}
		assert.GreaterOrEqual(t, r.Rating, 1)
		assert.LessOrEqual(t, r.Rating, 5)
	}
}
