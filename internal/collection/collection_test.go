package collection_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/memex/internal/collection"
	"github.com/Tiliavir/memex/internal/model"
)

func entryAt(id string, t time.Time) model.Entry {
	return model.Entry{ID: id, Text: id, Time: t}
}

func ids(entries []model.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestRegroupAcrossMidnight(t *testing.T) {
	flat := []model.Entry{
		entryAt("late", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)),
		entryAt("early", time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)),
	}
	groups := collection.Regroup(flat, time.UTC)

	require.Len(t, groups, 2)
	assert.True(t, groups[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, groups[1].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"late"}, ids(groups[0].Entries))
	assert.Equal(t, []string{"early"}, ids(groups[1].Entries))
}

func TestRegroupUsesLocalCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	flat := []model.Entry{
		entryAt("a", time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)), // 23:00 JST
		entryAt("b", time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)), // 01:00 JST next day
	}

	assert.Len(t, collection.Regroup(flat, time.UTC), 1)

	groups := collection.Regroup(flat, tokyo)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Date.Day())
	assert.Equal(t, 2, groups[1].Date.Day())
	assert.Equal(t, tokyo, groups[1].Date.Location())
}

func TestRegroupIsDeterministicUnderPermutation(t *testing.T) {
	base := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	var flat []model.Entry
	for i := 0; i < 20; i++ {
		flat = append(flat, entryAt(string(rune('a'+i)), base.Add(time.Duration(i)*7*time.Hour)))
	}
	want := collection.Regroup(flat, time.UTC)

	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 10; round++ {
		shuffled := append([]model.Entry(nil), flat...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, collection.Regroup(shuffled, time.UTC))
	}
}

func TestRegroupStableForEqualTimes(t *testing.T) {
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	flat := []model.Entry{entryAt("x", at), entryAt("y", at), entryAt("z", at)}

	groups := collection.Regroup(flat, time.UTC)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"x", "y", "z"}, ids(groups[0].Entries))
}

func TestRegroupDoesNotMutateInput(t *testing.T) {
	flat := []model.Entry{
		entryAt("second", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		entryAt("first", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	_ = collection.Regroup(flat, time.UTC)
	assert.Equal(t, []string{"second", "first"}, ids(flat))
}

func TestFlattenRegroupRoundTrip(t *testing.T) {
	flat := []model.Entry{
		entryAt("c", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)),
		entryAt("a", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		entryAt("b", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
	}
	groups := collection.Regroup(flat, time.UTC)
	flattened := collection.Flatten(groups)

	assert.Equal(t, []string{"a", "b", "c"}, ids(flattened))
	assert.Equal(t, groups, collection.Regroup(flattened, time.UTC))
	assert.Equal(t, 3, collection.Count(groups))
}

func TestEmpty(t *testing.T) {
	groups := collection.Regroup(nil, time.UTC)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
	assert.Empty(t, collection.Flatten(groups))
}
