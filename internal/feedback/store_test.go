package feedback

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-checker-server/internal/domain"
)

func TestOpen(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	store, err := Open(ctx, domain.FeedbackConfig{Driver: DriverNone}, logger)
	require.NoError(t, err)
	assert.Nil(t, store)

	path := filepath.Join(t.TempDir(), "fb.db")
	store, err = Open(ctx, domain.FeedbackConfig{Driver: DriverSQLite, SQLitePath: path}, logger)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, store.Close())

	_, err = Open(ctx, domain.FeedbackConfig{Driver: "mongo"}, logger)
	assert.ErrorContains(t, err, "unknown feedback driver")
}

func TestFeedbackValidate(t *testing.T) {
	valid := newFeedback("Migraine", 3, true)
	assert.NoError(t, valid.Validate())

	long := newFeedback("Migraine", 3, true)
	long.Notes = string(make([]byte, MaxNoteLength+1))
	long.SuggestedConfidence = 96

	var verrs domain.ValidationErrors
	require.ErrorAs(t, long.Validate(), &verrs)
	assert.Equal(t, []string{"suggested_confidence", "notes"}, verrs.Fields())
}
