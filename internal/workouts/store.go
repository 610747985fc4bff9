// Package workouts owns workout documents and their nested exercise entries.
// Creation follows the same nested-batch pattern as posts: the workout and
// every exercise land in one atomic batch.
package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tedhz/LeTeam/internal/docstore"
	"github.com/tedhz/LeTeam/internal/events"
)

// ErrNoExercises is returned when AddExercisesToWorkout receives an empty list.
var ErrNoExercises = errors.New("no exercises to add")

// Workout is the document stored under users/{userId}/workouts/{workoutId}.
type Workout struct {
	ID          string
	UserID      string
	WorkoutDate time.Time
	CreatedAt   time.Time
}

// Exercise is the nested document under a workout.
type Exercise struct {
	ID           string
	Name         string
	NumberOfSets int
	RepsPerSet   int
	WeightAmount float64
}

// Store owns workouts and exercises.
type Store struct {
	db     docstore.Store
	events *events.Publisher
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the creation-timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithEvents attaches a post-commit event publisher.
func WithEvents(publisher *events.Publisher) Option {
	return func(s *Store) {
		s.events = publisher
	}
}

// NewStore constructs a Store.
func NewStore(db docstore.Store, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateWorkout writes the workout document and one document per exercise in
// a single atomic batch. An empty exercise list is allowed and creates only
// the workout.
func (s *Store) CreateWorkout(ctx context.Context, userID string, workoutDate time.Time, exercises []Exercise) (string, error) {
	workoutID := s.db.NewID()

	batch := s.db.Batch()
	batch.Set(workoutDoc(userID, workoutID), map[string]interface{}{
		"workoutDate": workoutDate.UTC(),
		"createdAt":   s.now().UTC(),
	})
	s.appendExercises(batch, userID, workoutID, exercises)
	if err := batch.Commit(ctx); err != nil {
		return "", fmt.Errorf("create workout for %s: %w", userID, err)
	}

	s.events.WorkoutCreated(ctx, events.WorkoutCreated{
		WorkoutID:     workoutID,
		UserID:        userID,
		WorkoutDate:   workoutDate.UTC(),
		ExerciseCount: len(exercises),
	})
	return workoutID, nil
}

// AddExercisesToWorkout appends exercises to an existing workout in one
// atomic batch. Unlike creation, an empty list is rejected before any write.
func (s *Store) AddExercisesToWorkout(ctx context.Context, userID, workoutID string, exercises []Exercise) error {
	if len(exercises) == 0 {
		return ErrNoExercises
	}

	batch := s.db.Batch()
	s.appendExercises(batch, userID, workoutID, exercises)
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("add exercises to workout %s: %w", workoutID, err)
	}
	return nil
}

// GetWorkouts returns a user's workouts, most recent workout date first.
func (s *Store) GetWorkouts(ctx context.Context, userID string) ([]Workout, error) {
	snaps, err := s.db.Query(ctx, docstore.Query{
		Collection: workoutsCollection(userID),
		OrderBy:    "workoutDate",
		Desc:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("workouts for %s: %w", userID, err)
	}

	result := make([]Workout, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, Workout{
			ID:          snap.ID,
			UserID:      userID,
			WorkoutDate: snap.Time("workoutDate"),
			CreatedAt:   snap.Time("createdAt"),
		})
	}
	return result, nil
}

// GetExercisesForWorkout returns a workout's exercises in insertion order.
func (s *Store) GetExercisesForWorkout(ctx context.Context, userID, workoutID string) ([]Exercise, error) {
	snaps, err := s.db.Query(ctx, docstore.Query{
		Collection: exercisesCollection(userID, workoutID),
		OrderBy:    "createdAt",
	})
	if err != nil {
		return nil, fmt.Errorf("exercises for workout %s: %w", workoutID, err)
	}

	result := make([]Exercise, 0, len(snaps))
	for _, snap := range snaps {
		result = append(result, Exercise{
			ID:           snap.ID,
			Name:         snap.String("exerciseName"),
			NumberOfSets: snap.Int("numberOfSets"),
			RepsPerSet:   snap.Int("repsPerSet"),
			WeightAmount: snap.Float("weightAmount"),
		})
	}
	return result, nil
}

func (s *Store) appendExercises(batch docstore.Batch, userID, workoutID string, exercises []Exercise) {
	for _, exercise := range exercises {
		batch.Set(exerciseDoc(userID, workoutID, s.db.NewID()), map[string]interface{}{
			"exerciseName": exercise.Name,
			"numberOfSets": exercise.NumberOfSets,
			"repsPerSet":   exercise.RepsPerSet,
			"weightAmount": exercise.WeightAmount,
			"createdAt":    s.now().UTC(),
		})
	}
}

func workoutsCollection(userID string) string {
	return "users/" + userID + "/workouts"
}

func workoutDoc(userID, workoutID string) string {
	return workoutsCollection(userID) + "/" + workoutID
}

func exercisesCollection(userID, workoutID string) string {
	return workoutDoc(userID, workoutID) + "/exercises"
}

func exerciseDoc(userID, workoutID, exerciseID string) string {
	return exercisesCollection(userID, workoutID) + "/" + exerciseID
}
