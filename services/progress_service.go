package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
)

// ProgressService derives course completion state from lesson completion
// events.
type ProgressService struct {
	store database.EntityStore
}

// NewProgressService creates a new progress service
func NewProgressService(store database.EntityStore) *ProgressService {
	return &ProgressService{store: store}
}

// CompleteLessonResult is the outcome of completing a lesson.
type CompleteLessonResult struct {
	UserLesson      *model.UserLesson `json:"user_lesson"`
	Progress        int               `json:"progress"`
	CourseCompleted bool              `json:"course_completed"`
}

// StartCourse creates the enrollment record for (userID, courseID) if it does
// not exist yet. Starting an already-started course is a no-op.
func (s *ProgressService) StartCourse(userID, courseID uint) (*model.UserCourse, error) {
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, fmt.Errorf("start course: %w", err)
	}
	course, err := s.store.GetCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("start course: %w", err)
	}
	if !course.Active {
		return nil, ErrCourseInactive
	}

	uc, err := s.store.GetUserCourse(userID, courseID)
	if err == nil {
		return uc, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	uc = &model.UserCourse{UserID: userID, CourseID: courseID, StartedAt: time.Now()}
	if err := s.store.CreateUserCourse(uc); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return uc, nil
}

// CompleteLesson marks a lesson as completed for the user and recomputes the
// course progress. Re-completing an already-completed lesson is idempotent.
// The enrollment record is auto-created if the user never explicitly started
// the course.
func (s *ProgressService) CompleteLesson(userID, lessonID uint) (*CompleteLessonResult, error) {
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	now := time.Now()

	ul, err := s.store.GetUserLesson(userID, lessonID)
	if errors.Is(err, database.ErrNotFound) {
		ul = &model.UserLesson{
			UserID:   userID,
			LessonID: lessonID,
			CourseID: lesson.CourseID,
		}
		if err := s.store.CreateUserLesson(ul); err != nil {
			return nil, fmt.Errorf("create lesson record: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	if !ul.Completed {
		ul.Completed = true
		ul.CompletedAt = &now
		if err := s.store.UpdateUserLesson(ul); err != nil {
			return nil, fmt.Errorf("update lesson record: %w", err)
		}
	}

	progress, err := s.courseProgress(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	uc, err := s.store.GetUserCourse(userID, lesson.CourseID)
	if errors.Is(err, database.ErrNotFound) {
		uc = &model.UserCourse{UserID: userID, CourseID: lesson.CourseID, StartedAt: now}
		if err := s.store.CreateUserCourse(uc); err != nil {
			return nil, fmt.Errorf("create enrollment: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	uc.Progress = progress
	// Completion transitions at most once; progress never regresses here.
	if progress == 100 && uc.CompletedAt == nil {
		uc.CompletedAt = &now
	}
	if err := s.store.UpdateUserCourse(uc); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}

	return &CompleteLessonResult{
		UserLesson:      ul,
		Progress:        progress,
		CourseCompleted: progress == 100,
	}, nil
}

// GetUserProgress lists the user's enrollment records.
func (s *ProgressService) GetUserProgress(userID uint) ([]model.UserCourse, error) {
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return s.store.ListUserCourses(userID)
}

// courseProgress computes round(100 * completed / total) for the course. A
// course with zero lessons has 0% progress rather than a division error.
func (s *ProgressService) courseProgress(userID, courseID uint) (int, error) {
	lessons, err := s.store.ListLessonsByCourse(courseID)
	if err != nil {
		return 0, err
	}
	if len(lessons) == 0 {
		return 0, nil
	}

	userLessons, err := s.store.ListUserLessonsByCourse(userID, courseID)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, ul := range userLessons {
		if ul.Completed {
			completed++
		}
	}

	return int(math.Round(100 * float64(completed) / float64(len(lessons)))), nil
}
