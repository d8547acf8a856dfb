package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewEventService(repo, time.Second)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.CreateEvent(ctx, "user.registered", "info", "old", "alice"))
	svc.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, svc.CreateEvent(ctx, "auth.login", "info", "new", "alice"))

	events, err := svc.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "auth.login", events[0].Type)
	assert.NotEmpty(t, events[0].ID)

	n, err := svc.PruneEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	events, err = svc.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Message)
}
