package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgress(t *testing.T) {
	tests := []struct {
		name       string
		userID     uuid.UUID
		questionID uuid.UUID
		wantErr    error
	}{
		{
			name:       "valid progress",
			userID:     uuid.New(),
			questionID: uuid.New(),
		},
		{
			name:       "nil user ID",
			userID:     uuid.Nil,
			questionID: uuid.New(),
			wantErr:    ErrEmptyProgressUserID,
		},
		{
			name:       "nil question ID",
			userID:     uuid.New(),
			questionID: uuid.Nil,
			wantErr:    ErrEmptyProgressQuestionID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProgress(tt.userID, tt.questionID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}

			require.NoError(t, err)
			assert.False(t, p.IsCorrect)
			assert.Equal(t, 0, p.IncorrectCount)
			assert.Nil(t, p.LastAttempted)
		})
	}
}

func TestProgress_RecordAttempt(t *testing.T) {
	now := time.Now().UTC()

	t.Run("incorrect answers increment the count", func(t *testing.T) {
		p, err := NewProgress(uuid.New(), uuid.New())
		require.NoError(t, err)

		p.RecordAttempt(false, now)
		assert.False(t, p.IsCorrect)
		assert.Equal(t, 1, p.IncorrectCount)
		require.NotNil(t, p.LastAttempted)
		assert.Equal(t, now, *p.LastAttempted)

		p.RecordAttempt(false, now.Add(time.Minute))
		assert.Equal(t, 2, p.IncorrectCount)
	})

	t.Run("correct answer resets the count regardless of prior value", func(t *testing.T) {
		p, err := NewProgress(uuid.New(), uuid.New())
		require.NoError(t, err)

		p.RecordAttempt(false, now)
		p.RecordAttempt(false, now)
		p.RecordAttempt(false, now)
		require.Equal(t, 3, p.IncorrectCount)

		p.RecordAttempt(true, now.Add(time.Minute))
		assert.True(t, p.IsCorrect)
		assert.Equal(t, 0, p.IncorrectCount)
	})

	t.Run("incorrect after correct starts counting again", func(t *testing.T) {
		p, err := NewProgress(uuid.New(), uuid.New())
		require.NoError(t, err)

		p.RecordAttempt(true, now)
		p.RecordAttempt(false, now.Add(time.Minute))
		assert.False(t, p.IsCorrect)
		assert.Equal(t, 1, p.IncorrectCount)
	})
}

func TestProgress_Validate(t *testing.T) {
	p, err := NewProgress(uuid.New(), uuid.New())
	require.NoError(t, err)

	p.IncorrectCount = -1
	assert.ErrorIs(t, p.Validate(), ErrNegativeIncorrectCount)
}
