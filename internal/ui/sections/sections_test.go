package sections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sadhana/internal/model"
)

func TestToggleEmitsFlippedValue(t *testing.T) {
	d := model.Draft{Japa: model.Flags{false, true, false}}

	cmd := Toggle(d, model.JapaField(1))
	require.NotNil(t, cmd)
	assert.Equal(t, FieldChangedMsg{Field: model.JapaField(1), Value: false}, cmd())

	cmd = Toggle(d, model.AfterSunsetField)
	require.NotNil(t, cmd)
	assert.Equal(t, FieldChangedMsg{Field: model.AfterSunsetField, Value: true}, cmd())

	assert.Nil(t, Toggle(d, model.StotraField(7)))
}

func TestFieldsCoverEveryCheckboxOnce(t *testing.T) {
	seen := map[model.Field]bool{}
	for _, k := range Kinds {
		for _, f := range Fields(k) {
			assert.False(t, seen[f], "duplicate %s", f)
			seen[f] = true
		}
	}
	assert.Len(t, seen, 2*model.FlagCount+3)
	assert.Len(t, Fields(JapaStotra), 6)
	assert.Equal(t, []model.Field{model.ExerciseField}, Fields(Physical))
}

func TestRenderShowsLabelsAndValues(t *testing.T) {
	d := model.Draft{
		Japa:           model.Flags{true, false, false},
		ExerciseDone:   true,
		AteAfterSunset: true,
	}
	st := DefaultStyles()

	japa := Render(JapaStotra, d, -1, st)
	assert.Contains(t, japa, "Mantra Japa")
	assert.Contains(t, japa, "Stotra Recitations")
	assert.Equal(t, 1, strings.Count(japa, "[x]"))
	assert.Equal(t, 5, strings.Count(japa, "[ ]"))

	assert.Contains(t, Render(Physical, d, -1, st), "Did you exercise?")
	assert.Contains(t, Render(Physical, d, -1, st), "[x]")

	diet := Render(Diet, d, 0, st)
	assert.Contains(t, diet, "No Junk Food Today?")
	assert.Contains(t, diet, "No Food After Sunset?")
	assert.Equal(t, 1, strings.Count(diet, "[x]"))
}

func TestRenderIsPure(t *testing.T) {
	d := model.Draft{Stotra: model.Flags{true, true, false}}
	st := FadedStyles(0.5)

	assert.Equal(t, Render(JapaStotra, d, 4, st), Render(JapaStotra, d, 4, st))
	assert.Equal(t, model.Flags{true, true, false}, d.Stotra)
}

func TestKindTitles(t *testing.T) {
	assert.Equal(t, "Japa & Stotra", JapaStotra.Title())
	assert.Equal(t, "Physical Well-being", Physical.Title())
	assert.Equal(t, "Diet & Habits", Diet.Title())
}
