package database

import (
	"context"
	"testing"

	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProfessorUpserts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		ctx := context.Background()
		seeder := NewSeeder(store, auth.PlaintextHasher{})

		seed := ProfessorSeed{Name: "humberto", Email: "humberto@x.com", Password: "123", Course: "ADS"}
		require.NoError(t, seeder.SeedAll(ctx, seed))

		professor, err := store.Professors().GetByEmail(ctx, seed.Email)
		require.NoError(t, err)
		assert.Equal(t, "123", professor.Password)

		seed.Password = "456"
		seed.Course = "Engenharia de Software"
		require.NoError(t, seeder.SeedAll(ctx, seed))

		list, err := store.Professors().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "456", list[0].Password)
		assert.Equal(t, "Engenharia de Software", list[0].Course)
	})
}

func TestSeedProfessorSkipsWithoutCredentials(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Storage) {
		seeder := NewSeeder(store, auth.PlaintextHasher{})
		require.NoError(t, seeder.SeedProfessor(context.Background(), ProfessorSeed{Email: "a@x.com"}))

		list, err := store.Professors().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
