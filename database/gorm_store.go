package database

import (
	"errors"

	"github.com/ton-education/backend/model"
	"gorm.io/gorm"
)

// wrapNotFound maps gorm.ErrRecordNotFound onto the store-level sentinel so
// engines never depend on the storage technology.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// User operations

func (s *GORMStore) GetUser(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GORMStore) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GORMStore) GetUserByTelegramID(telegramID string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GORMStore) GetUserByReferralCode(code string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GORMStore) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GORMStore) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

func (s *GORMStore) UpdateUser(user *model.User) error {
	return s.db.Save(user).Error
}

// Course operations

func (s *GORMStore) GetCourse(id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.First(&course, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &course, nil
}

func (s *GORMStore) ListCourses(activeOnly bool) ([]model.Course, error) {
	query := s.db.Order("id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var courses []model.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GORMStore) CreateCourse(course *model.Course) error {
	return s.db.Create(course).Error
}

func (s *GORMStore) UpdateCourse(course *model.Course) error {
	return s.db.Save(course).Error
}

func (s *GORMStore) DeleteCourse(id uint) error {
	result := s.db.Delete(&model.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Lesson operations

func (s *GORMStore) GetLesson(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &lesson, nil
}

func (s *GORMStore) ListLessonsByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := s.db.Where("course_id = ?", courseID).
		Order("order_number").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *GORMStore) CreateLesson(lesson *model.Lesson) error {
	return s.db.Create(lesson).Error
}

func (s *GORMStore) UpdateLesson(lesson *model.Lesson) error {
	return s.db.Save(lesson).Error
}

func (s *GORMStore) DeleteLesson(id uint) error {
	result := s.db.Delete(&model.Lesson{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserCourse operations

func (s *GORMStore) GetUserCourse(userID, courseID uint) (*model.UserCourse, error) {
	var uc model.UserCourse
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&uc).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &uc, nil
}

func (s *GORMStore) ListUserCourses(userID uint) ([]model.UserCourse, error) {
	var ucs []model.UserCourse
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&ucs).Error; err != nil {
		return nil, err
	}
	return ucs, nil
}

func (s *GORMStore) CreateUserCourse(uc *model.UserCourse) error {
	return s.db.Create(uc).Error
}

func (s *GORMStore) UpdateUserCourse(uc *model.UserCourse) error {
	return s.db.Save(uc).Error
}

// UserLesson operations

func (s *GORMStore) GetUserLesson(userID, lessonID uint) (*model.UserLesson, error) {
	var ul model.UserLesson
	if err := s.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&ul).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &ul, nil
}

func (s *GORMStore) ListUserLessonsByCourse(userID, courseID uint) ([]model.UserLesson, error) {
	var uls []model.UserLesson
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("id").
		Find(&uls).Error; err != nil {
		return nil, err
	}
	return uls, nil
}

func (s *GORMStore) CreateUserLesson(ul *model.UserLesson) error {
	return s.db.Create(ul).Error
}

func (s *GORMStore) UpdateUserLesson(ul *model.UserLesson) error {
	return s.db.Save(ul).Error
}

// Certificate operations

func (s *GORMStore) GetCertificate(id uint) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.First(&cert, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &cert, nil
}

func (s *GORMStore) ListUserCertificates(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (s *GORMStore) ListAllCertificates() ([]model.Certificate, error) {
	var certs []model.Certificate
	if err := s.db.Order("id").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (s *GORMStore) CreateCertificate(cert *model.Certificate) error {
	return s.db.Create(cert).Error
}

// Reward operations

func (s *GORMStore) ListUserRewards(userID uint) ([]model.Reward, error) {
	var rewards []model.Reward
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *GORMStore) ListAllRewards() ([]model.Reward, error) {
	var rewards []model.Reward
	if err := s.db.Order("created_at DESC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *GORMStore) CreateReward(reward *model.Reward) error {
	return s.db.Create(reward).Error
}

// ReferralTier operations

func (s *GORMStore) GetReferralTier(tier int) (*model.ReferralTier, error) {
	var rt model.ReferralTier
	if err := s.db.Where("tier = ?", tier).First(&rt).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &rt, nil
}

func (s *GORMStore) ListReferralTiers() ([]model.ReferralTier, error) {
	var tiers []model.ReferralTier
	if err := s.db.Order("tier").Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (s *GORMStore) CreateReferralTier(tier *model.ReferralTier) error {
	return s.db.Create(tier).Error
}

func (s *GORMStore) UpdateReferralTier(tier *model.ReferralTier) error {
	return s.db.Save(tier).Error
}
