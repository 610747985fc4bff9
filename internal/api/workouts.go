package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/workouts"
)

// ExercisePayload carries one exercise in workout requests and responses.
type ExercisePayload struct {
	ExerciseID   string  `json:"exercise_id,omitempty"`
	Name         string  `json:"name"`
	NumberOfSets int     `json:"number_of_sets"`
	RepsPerSet   int     `json:"reps_per_set"`
	WeightAmount float64 `json:"weight_amount"`
}

// CreateWorkoutRequest is the payload for POST /v1/workouts.
type CreateWorkoutRequest struct {
	WorkoutDate time.Time         `json:"workout_date"`
	Exercises   []ExercisePayload `json:"exercises"`
}

// Validate ensures request correctness.
func (r CreateWorkoutRequest) Validate() error {
	if r.WorkoutDate.IsZero() {
		return errors.New("workout_date is required")
	}
	return nil
}

// WorkoutView exposes one workout.
type WorkoutView struct {
	WorkoutID   string    `json:"workout_id"`
	UserID      string    `json:"user_id"`
	WorkoutDate time.Time `json:"workout_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExercises(payloads []ExercisePayload) []workouts.Exercise {
	items := make([]workouts.Exercise, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, workouts.Exercise{
			Name:         p.Name,
			NumberOfSets: p.NumberOfSets,
			RepsPerSet:   p.RepsPerSet,
			WeightAmount: p.WeightAmount,
		})
	}
	return items
}

func (h *Handler) workoutsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createWorkout(w, r)
	case http.MethodGet:
		h.listWorkouts(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
	if !ok {
		return
	}

	var req CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	workoutID, err := h.workouts.CreateWorkout(r.Context(), claims.Subject, req.WorkoutDate, toExercises(req.Exercises))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"workout_id": workoutID})
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeSocialRead)
	if !ok {
		return
	}

	items, err := h.workouts.GetWorkouts(r.Context(), claims.Subject)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	views := make([]WorkoutView, 0, len(items))
	for _, item := range items {
		views = append(views, WorkoutView{
			WorkoutID:   item.ID,
			UserID:      item.UserID,
			WorkoutDate: item.WorkoutDate,
			CreatedAt:   item.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]WorkoutView{"items": views})
}

// workoutSubtree serves /v1/workouts/{id}/exercises.
func (h *Handler) workoutSubtree(w http.ResponseWriter, r *http.Request) {
	segments := subpath(r, "/v1/workouts/")
	if len(segments) != 2 || segments[1] != "exercises" {
		notFound(w)
		return
	}
	workoutID := segments[0]

	switch r.Method {
	case http.MethodPost:
		claims, ok := requireScope(w, r, auth.ScopeSocialWrite)
		if !ok {
			return
		}
		var req struct {
			Exercises []ExercisePayload `json:"exercises"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := h.workouts.AddExercisesToWorkout(r.Context(), claims.Subject, workoutID, toExercises(req.Exercises)); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		claims, ok := requireScope(w, r, auth.ScopeSocialRead)
		if !ok {
			return
		}
		items, err := h.workouts.GetExercisesForWorkout(r.Context(), claims.Subject, workoutID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		views := make([]ExercisePayload, 0, len(items))
		for _, item := range items {
			views = append(views, ExercisePayload{
				ExerciseID:   item.ID,
				Name:         item.Name,
				NumberOfSets: item.NumberOfSets,
				RepsPerSet:   item.RepsPerSet,
				WeightAmount: item.WeightAmount,
			})
		}
		writeJSON(w, http.StatusOK, map[string][]ExercisePayload{"items": views})
	default:
		methodNotAllowed(w)
	}
}
