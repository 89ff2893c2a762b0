package records

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
)

func newStore() *Store {
	return NewStore(inmemdb.NewDB())
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	recs, err := store.Get(ctx, core.CollectionClasses)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	id1, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": "Algorithms"})
	require.NoError(t, err)
	assert.NotEmpty(t, id1)
	id2, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": "Calculus"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	id3, err := store.Add(ctx, core.CollectionClasses, core.Record{"id": "given", "subject": "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "given", id3)

	recs, err = store.Get(ctx, core.CollectionClasses)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{id1, id2, id3}, []string{recs[0].ID(), recs[1].ID(), recs[2].ID()})
	assert.Equal(t, "Calculus", recs[1]["subject"])

	// other collections are untouched
	recs, err = store.Get(ctx, core.CollectionTeachers)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_getReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	fields := core.Record{"subject": "Algorithms"}
	id, err := store.Add(ctx, core.CollectionClasses, fields)
	require.NoError(t, err)
	_, hasID := fields["id"]
	assert.False(t, hasID, "Add must not modify its input")

	recs, err := store.Get(ctx, core.CollectionClasses)
	require.NoError(t, err)
	recs[0]["subject"] = "changed"

	recs, err = store.Get(ctx, core.CollectionClasses)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", recs[0]["subject"])
	assert.Equal(t, id, recs[0].ID())
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	id, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": "Algorithms", "room": "CS-101"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		partial core.Record
		wantOK  bool
		want    core.Record
	}{
		{
			name:    "merge",
			id:      id,
			partial: core.Record{"room": "CS-103", "day": "Friday"},
			wantOK:  true,
			want:    core.Record{"id": id, "subject": "Algorithms", "room": "CS-103", "day": "Friday"},
		},
		{
			name:    "id is immutable",
			id:      id,
			partial: core.Record{"id": "other", "subject": "Data Structures"},
			wantOK:  true,
			want:    core.Record{"id": id, "subject": "Data Structures", "room": "CS-103", "day": "Friday"},
		},
		{
			name:    "missing id",
			id:      "nope",
			partial: core.Record{"room": "x"},
			want:    core.Record{"id": id, "subject": "Data Structures", "room": "CS-103", "day": "Friday"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := store.Replace(ctx, core.CollectionClasses, tt.id, tt.partial)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			recs, err := store.Get(ctx, core.CollectionClasses)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0])
		})
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	keep, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": "Algorithms"})
	require.NoError(t, err)
	drop, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": "Calculus"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := store.Remove(ctx, core.CollectionClasses, drop)
		require.NoError(t, err)
		assert.True(t, ok, "remove #%d", i+1)

		recs, err := store.Get(ctx, core.CollectionClasses)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, keep, recs[0].ID())
	}

	ok, err := store.Remove(ctx, core.CollectionUsers, "never-existed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Seed(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	ok, err := store.Seed(ctx, core.CollectionTeachers, []core.Record{{"id": "2", "name": "John"}, {"name": "No ID"}})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Seed(ctx, core.CollectionTeachers, []core.Record{{"id": "9", "name": "Other"}})
	require.NoError(t, err)
	assert.False(t, ok)

	recs, err := store.Get(ctx, core.CollectionTeachers)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2", recs[0].ID())
	assert.NotEmpty(t, recs[1].ID())

	t.Run("emptied collection", func(t *testing.T) {
		for _, rec := range recs {
			_, err := store.Remove(ctx, core.CollectionTeachers, rec.ID())
			require.NoError(t, err)
		}

		ok, err := store.Seed(ctx, core.CollectionTeachers, []core.Record{{"id": "9", "name": "Other"}})
		require.NoError(t, err)
		assert.False(t, ok)

		recs, err := store.Get(ctx, core.CollectionTeachers)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestStore_concurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	var wg sync.WaitGroup
	n := 50
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(ctx, core.CollectionClasses, core.Record{"subject": strconv.Itoa(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	recs, err := store.Get(ctx, core.CollectionClasses)
	require.NoError(t, err)
	assert.Len(t, recs, n)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	seeded, err := SeedDefaults(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{core.CollectionUsers, core.CollectionTeachers, core.CollectionClasses}, seeded)

	seeded, err = SeedDefaults(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, seeded)

	users, err := NewUserRepository(store).QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "admin@college.edu", users[0].Email)
	assert.NoError(t, users[0].CheckPassword("admin123"))

	teachers, err := NewTeacherRepository(store).QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 3)
	assert.Equal(t, []string{"2", "4", "5"}, []string{teachers[0].ID, teachers[1].ID, teachers[2].ID})

	sessions, err := NewSessionRepository(store).QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 6)
	assert.Equal(t, "Data Structures", sessions[0].Subject)
	assert.Equal(t, "10:30", sessions[0].EndTime.String())

	// deleted defaults do not come back on the next start
	repo := NewSessionRepository(store)
	for _, s := range sessions {
		require.NoError(t, repo.Delete(ctx, s.ID))
	}
	seeded, err = SeedDefaults(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, seeded)
	sessions, err = repo.QueryAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
