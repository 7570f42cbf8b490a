package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

func testSnapshot() types.SessionSnapshot {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return types.SessionSnapshot{
		ID:          uuid.New(),
		CurrentStep: types.StepJobDetails,
		HasUnsaved:  true,
		Data: types.AllFormData{
			Step1: &types.PersonalInfo{
				FullName: "Ada Lovelace",
				Email:    "ada@example.com",
				Phone:    "+1-555-123-4567",
				DOB:      types.NewDate(1990, time.March, 1),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	snap := testSnapshot()
	require.NoError(t, db.SaveSession(ctx, snap))

	got, err := db.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.CurrentStep, got.CurrentStep)
	assert.True(t, got.HasUnsaved)
	assert.Equal(t, snap.Data.Step1, got.Data.Step1)
	assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))

	// Upsert
	snap.CurrentStep = types.StepSkills
	snap.HasUnsaved = false
	snap.UpdatedAt = snap.UpdatedAt.Add(time.Minute)
	require.NoError(t, db.SaveSession(ctx, snap))
	got, err = db.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StepSkills, got.CurrentStep)
	assert.False(t, got.HasUnsaved)

	require.NoError(t, db.DeleteSession(ctx, snap.ID))
	got, err = db.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetSession_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubmissions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	sessionID := uuid.New()
	base := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	older := types.Submission{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Payload:     types.SubmissionPayload{SubmittedAt: base.Format(types.SubmittedAtLayout)},
		SubmittedAt: base,
	}
	newer := older
	newer.ID = uuid.New()
	newer.SubmittedAt = base.Add(time.Second)
	newer.Payload.SubmittedAt = newer.SubmittedAt.Format(types.SubmittedAtLayout)

	require.NoError(t, db.SaveSubmission(ctx, older))
	require.NoError(t, db.SaveSubmission(ctx, newer))

	subs, err := db.ListSubmissions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, newer.ID, subs[0].ID)
	assert.Equal(t, older.ID, subs[1].ID)
	assert.Equal(t, newer.Payload.SubmittedAt, subs[0].Payload.SubmittedAt)
}
