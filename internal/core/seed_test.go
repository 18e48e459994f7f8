package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaults_IsIdempotent(t *testing.T) {
	service, rec := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.SeedDefaults(ctx))
	requireNoWrites(t, rec)

	people, err := service.databaseService.CountPeople(ctx)
	require.NoError(t, err)
	images, err := service.databaseService.CountImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedPeople), people)
	assert.Equal(t, len(seedAvatars), images)
}

func TestSeedDefaults_ReferencesAreConsistent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, avatar := range seedAvatars {
		if avatar.personID == "" {
			continue
		}
		person, err := service.GetPerson(ctx, avatar.personID)
		require.NoError(t, err)
		assert.Equal(t, avatar.id, person.AvatarID)
	}
}
