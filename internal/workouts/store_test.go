package workouts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tedhz/LeTeam/internal/docstore"
)

func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func newTestStore(t *testing.T) (*Store, *docstore.Memory) {
	t.Helper()
	db := docstore.NewMemory()
	store := NewStore(db, WithClock(tickingClock(time.Date(2026, time.April, 5, 7, 0, 0, 0, time.UTC))))
	return store, db
}

func TestCreateWorkoutWithExercises(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	date := time.Date(2026, time.April, 4, 0, 0, 0, 0, time.UTC)
	workoutID, err := store.CreateWorkout(ctx, "u1", date, []Exercise{
		{Name: "Squat", NumberOfSets: 5, RepsPerSet: 5, WeightAmount: 102.5},
		{Name: "Bench Press", NumberOfSets: 3, RepsPerSet: 8, WeightAmount: 70},
	})
	require.NoError(t, err)
	require.NotEmpty(t, workoutID)

	workouts, err := store.GetWorkouts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.Equal(t, workoutID, workouts[0].ID)
	require.Equal(t, "u1", workouts[0].UserID)
	require.True(t, workouts[0].WorkoutDate.Equal(date))

	exercises, err := store.GetExercisesForWorkout(ctx, "u1", workoutID)
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	require.Equal(t, "Squat", exercises[0].Name)
	require.Equal(t, 5, exercises[0].NumberOfSets)
	require.Equal(t, 5, exercises[0].RepsPerSet)
	require.Equal(t, 102.5, exercises[0].WeightAmount)
	require.Equal(t, "Bench Press", exercises[1].Name)
}

func TestCreateWorkoutWithoutExercises(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	workoutID, err := store.CreateWorkout(ctx, "u1", time.Now().UTC(), nil)
	require.NoError(t, err)

	exercises, err := store.GetExercisesForWorkout(ctx, "u1", workoutID)
	require.NoError(t, err)
	require.Empty(t, exercises)
}

func TestGetWorkoutsMostRecentDateFirst(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	older, err := store.CreateWorkout(ctx, "u1", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	newer, err := store.CreateWorkout(ctx, "u1", time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	workouts, err := store.GetWorkouts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	require.Equal(t, newer, workouts[0].ID)
	require.Equal(t, older, workouts[1].ID)
}

func TestAddExercisesToWorkout(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	workoutID, err := store.CreateWorkout(ctx, "u1", time.Now().UTC(), []Exercise{
		{Name: "Deadlift", NumberOfSets: 1, RepsPerSet: 5, WeightAmount: 140},
	})
	require.NoError(t, err)

	err = store.AddExercisesToWorkout(ctx, "u1", workoutID, []Exercise{
		{Name: "Pull Up", NumberOfSets: 3, RepsPerSet: 10},
	})
	require.NoError(t, err)

	exercises, err := store.GetExercisesForWorkout(ctx, "u1", workoutID)
	require.NoError(t, err)
	require.Len(t, exercises, 2)
	require.Equal(t, "Deadlift", exercises[0].Name)
	require.Equal(t, "Pull Up", exercises[1].Name)
}

func TestAddExercisesEmptyListRejectedBeforeWrite(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	workoutID, err := store.CreateWorkout(ctx, "u1", time.Now().UTC(), nil)
	require.NoError(t, err)

	err = store.AddExercisesToWorkout(ctx, "u1", workoutID, nil)
	require.ErrorIs(t, err, ErrNoExercises)

	snaps, err := db.Query(ctx, docstore.Query{Collection: "users/u1/workouts/" + workoutID + "/exercises"})
	require.NoError(t, err)
	require.Empty(t, snaps, "rejected call must not write anything")
}
