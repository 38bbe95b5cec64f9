package services

import (
	"errors"
	"testing"

	"github.com/ton-education/backend/database"
)

func TestStartCourseIsIdempotent(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 3)
	svc := NewProgressService(store)

	first, err := svc.StartCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.StartCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same enrollment, got ids %d and %d", first.ID, second.ID)
	}
	if second.Progress != 0 {
		t.Errorf("expected progress 0, got %d", second.Progress)
	}
}

func TestStartCourseInactive(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "Retired Course", 0.05, 0.15, 1)
	course.Active = false
	if err := store.UpdateCourse(course); err != nil {
		t.Fatalf("deactivate course: %v", err)
	}

	svc := NewProgressService(store)
	if _, err := svc.StartCourse(user.ID, course.ID); !errors.Is(err, ErrCourseInactive) {
		t.Fatalf("expected ErrCourseInactive, got %v", err)
	}
}

func TestStartCourseUnknown(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	svc := NewProgressService(store)

	if _, err := svc.StartCourse(user.ID, 999); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteLessonProgressStaircase(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 3)
	svc := NewProgressService(store)

	if _, err := svc.StartCourse(user.ID, course.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	lessons, err := store.ListLessonsByCourse(course.ID)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}

	wantProgress := []int{33, 67, 100}
	for i, lesson := range lessons {
		result, err := svc.CompleteLesson(user.ID, lesson.ID)
		if err != nil {
			t.Fatalf("complete lesson %d: %v", i+1, err)
		}
		if result.Progress != wantProgress[i] {
			t.Errorf("lesson %d: progress = %d, want %d", i+1, result.Progress, wantProgress[i])
		}
		wantCompleted := i == len(lessons)-1
		if result.CourseCompleted != wantCompleted {
			t.Errorf("lesson %d: CourseCompleted = %v, want %v", i+1, result.CourseCompleted, wantCompleted)
		}
	}

	uc, err := store.GetUserCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if uc.CompletedAt == nil {
		t.Error("expected CompletedAt to be set after last lesson")
	}
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 2)
	svc := NewProgressService(store)

	lessons, _ := store.ListLessonsByCourse(course.ID)

	first, err := svc.CompleteLesson(user.ID, lessons[0].ID)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	again, err := svc.CompleteLesson(user.ID, lessons[0].ID)
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if first.Progress != again.Progress {
		t.Errorf("progress changed on repeat completion: %d -> %d", first.Progress, again.Progress)
	}
	if again.Progress != 50 {
		t.Errorf("progress = %d, want 50", again.Progress)
	}
}

func TestCompleteLessonAutoEnrolls(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 2)
	svc := NewProgressService(store)

	lessons, _ := store.ListLessonsByCourse(course.ID)

	// Completing a lesson without an explicit StartCourse creates the
	// enrollment on the fly.
	if _, err := svc.CompleteLesson(user.ID, lessons[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := store.GetUserCourse(user.ID, course.ID); err != nil {
		t.Fatalf("expected enrollment to exist: %v", err)
	}
}

func TestCourseCompletionSurvivesZeroLessons(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "Empty Course", 0.05, 0.15, 0)
	svc := NewProgressService(store)

	uc, err := svc.StartCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if uc.Progress != 0 {
		t.Errorf("progress = %d, want 0 for a course with no lessons", uc.Progress)
	}
}
