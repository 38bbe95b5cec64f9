package database

import (
	"errors"

	"github.com/ton-education/backend/model"
)

// ErrNotFound is returned by every getter when the referenced entity does not
// exist, regardless of the backing storage.
var ErrNotFound = errors.New("entity not found")

// EntityStore is the storage contract the engines depend on. Two
// implementations exist: GORMStore (PostgreSQL) and MemStore (in-memory, used
// in tests and wallet-less development setups). Business rules never live
// here; the store is pure data access.
type EntityStore interface {
	// User operations
	GetUser(id uint) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByTelegramID(telegramID string) (*model.User, error)
	GetUserByReferralCode(code string) (*model.User, error)
	ListUsers() ([]model.User, error)
	CreateUser(user *model.User) error
	UpdateUser(user *model.User) error

	// Course operations
	GetCourse(id uint) (*model.Course, error)
	ListCourses(activeOnly bool) ([]model.Course, error)
	CreateCourse(course *model.Course) error
	UpdateCourse(course *model.Course) error
	DeleteCourse(id uint) error

	// Lesson operations
	GetLesson(id uint) (*model.Lesson, error)
	ListLessonsByCourse(courseID uint) ([]model.Lesson, error)
	CreateLesson(lesson *model.Lesson) error
	UpdateLesson(lesson *model.Lesson) error
	DeleteLesson(id uint) error

	// UserCourse operations
	GetUserCourse(userID, courseID uint) (*model.UserCourse, error)
	ListUserCourses(userID uint) ([]model.UserCourse, error)
	CreateUserCourse(uc *model.UserCourse) error
	UpdateUserCourse(uc *model.UserCourse) error

	// UserLesson operations
	GetUserLesson(userID, lessonID uint) (*model.UserLesson, error)
	ListUserLessonsByCourse(userID, courseID uint) ([]model.UserLesson, error)
	CreateUserLesson(ul *model.UserLesson) error
	UpdateUserLesson(ul *model.UserLesson) error

	// Certificate operations (write-once)
	GetCertificate(id uint) (*model.Certificate, error)
	ListUserCertificates(userID uint) ([]model.Certificate, error)
	ListAllCertificates() ([]model.Certificate, error)
	CreateCertificate(cert *model.Certificate) error

	// Reward operations (append-only)
	ListUserRewards(userID uint) ([]model.Reward, error)
	ListAllRewards() ([]model.Reward, error)
	CreateReward(reward *model.Reward) error

	// ReferralTier operations
	GetReferralTier(tier int) (*model.ReferralTier, error)
	ListReferralTiers() ([]model.ReferralTier, error)
	CreateReferralTier(tier *model.ReferralTier) error
	UpdateReferralTier(tier *model.ReferralTier) error
}
