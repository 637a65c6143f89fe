package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/sadhana/internal/credential"
	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
)

func TestPrintLog(t *testing.T) {
	color.NoColor = true
	day := model.MustParseDay("2026-01-02")

	t.Run("found", func(t *testing.T) {
		var buf bytes.Buffer
		printLog(&buf, day, store.Found(model.SadhanaLog{
			Date:         day,
			Japa:         model.Flags{true, true, false},
			ExerciseDone: true,
		}))

		out := buf.String()
		assert.Contains(t, out, "Friday, January 2 2026")
		assert.Contains(t, out, "Japa & Stotra")
		assert.Contains(t, out, "Did you exercise?")
		assert.Contains(t, out, "Diet & Habits")
		assert.NotContains(t, out, "nothing logged yet")
		assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("✓")))
	})

	t.Run("not found", func(t *testing.T) {
		var buf bytes.Buffer
		printLog(&buf, day, store.NotFound())

		assert.Contains(t, buf.String(), "nothing logged yet")
		assert.NotContains(t, buf.String(), "✓")
	})
}

func TestCredentialsSetRejectsEmptyValue(t *testing.T) {
	cmd := credentialsSetCmd
	cmd.SetIn(bytes.NewBufferString("\n"))
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.RunE(cmd, []string{"rest-api-key"})
	assert.EqualError(t, err, "empty value for rest-api-key")
}

func TestCredentialNamesMatchStore(t *testing.T) {
	assert.Equal(t, store.SecretPostgresPassword, credential.PostgresPassword)
	assert.Equal(t, store.SecretRESTAPIKey, credential.RESTAPIKey)
}
