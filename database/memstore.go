package database

import (
	"sort"
	"sync"
	"time"

	"github.com/ton-education/backend/model"
)

// MemStore is an in-memory EntityStore: maps keyed by id with monotonically
// increasing counters. It is safe for concurrent use and backs the engine
// tests plus database-less development setups.
type MemStore struct {
	mu sync.RWMutex

	users         map[uint]model.User
	courses       map[uint]model.Course
	lessons       map[uint]model.Lesson
	userCourses   map[uint]model.UserCourse
	userLessons   map[uint]model.UserLesson
	certificates  map[uint]model.Certificate
	rewards       map[uint]model.Reward
	referralTiers map[uint]model.ReferralTier

	userID         uint
	courseID       uint
	lessonID       uint
	userCourseID   uint
	userLessonID   uint
	certificateID  uint
	rewardID       uint
	referralTierID uint
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:         make(map[uint]model.User),
		courses:       make(map[uint]model.Course),
		lessons:       make(map[uint]model.Lesson),
		userCourses:   make(map[uint]model.UserCourse),
		userLessons:   make(map[uint]model.UserLesson),
		certificates:  make(map[uint]model.Certificate),
		rewards:       make(map[uint]model.Reward),
		referralTiers: make(map[uint]model.ReferralTier),
	}
}

// User operations

func (s *MemStore) GetUser(id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemStore) GetUserByUsername(username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u model.User) bool { return u.Username == username })
}

func (s *MemStore) GetUserByTelegramID(telegramID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u model.User) bool { return u.TelegramID == telegramID })
}

func (s *MemStore) GetUserByReferralCode(code string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u model.User) bool { return u.ReferralCode == code })
}

// findUser scans users in id order; callers must hold the lock.
func (s *MemStore) findUser(match func(model.User) bool) (*model.User, error) {
	for _, id := range sortedKeys(s.users) {
		user := s.users[id]
		if match(user) {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]model.User, 0, len(s.users))
	for _, id := range sortedKeys(s.users) {
		users = append(users, s.users[id])
	}
	return users, nil
}

func (s *MemStore) CreateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID++
	user.ID = s.userID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (s *MemStore) UpdateUser(user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

// Course operations

func (s *MemStore) GetCourse(id uint) (*model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &course, nil
}

func (s *MemStore) ListCourses(activeOnly bool) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]model.Course, 0, len(s.courses))
	for _, id := range sortedKeys(s.courses) {
		course := s.courses[id]
		if activeOnly && !course.Active {
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *MemStore) CreateCourse(course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseID++
	course.ID = s.courseID
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	s.courses[course.ID] = *course
	return nil
}

func (s *MemStore) UpdateCourse(course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.ID]; !ok {
		return ErrNotFound
	}
	course.UpdatedAt = time.Now()
	s.courses[course.ID] = *course
	return nil
}

func (s *MemStore) DeleteCourse(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

// Lesson operations

func (s *MemStore) GetLesson(id uint) (*model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lesson, ok := s.lessons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &lesson, nil
}

func (s *MemStore) ListLessonsByCourse(courseID uint) ([]model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var lessons []model.Lesson
	for _, id := range sortedKeys(s.lessons) {
		lesson := s.lessons[id]
		if lesson.CourseID == courseID {
			lessons = append(lessons, lesson)
		}
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].OrderNumber < lessons[j].OrderNumber
	})
	return lessons, nil
}

func (s *MemStore) CreateLesson(lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessonID++
	lesson.ID = s.lessonID
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = lesson.CreatedAt
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *MemStore) UpdateLesson(lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[lesson.ID]; !ok {
		return ErrNotFound
	}
	lesson.UpdatedAt = time.Now()
	s.lessons[lesson.ID] = *lesson
	return nil
}

func (s *MemStore) DeleteLesson(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[id]; !ok {
		return ErrNotFound
	}
	delete(s.lessons, id)
	return nil
}

// UserCourse operations

func (s *MemStore) GetUserCourse(userID, courseID uint) (*model.UserCourse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.userCourses) {
		uc := s.userCourses[id]
		if uc.UserID == userID && uc.CourseID == courseID {
			return &uc, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListUserCourses(userID uint) ([]model.UserCourse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ucs []model.UserCourse
	for _, id := range sortedKeys(s.userCourses) {
		uc := s.userCourses[id]
		if uc.UserID == userID {
			ucs = append(ucs, uc)
		}
	}
	return ucs, nil
}

func (s *MemStore) CreateUserCourse(uc *model.UserCourse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userCourseID++
	uc.ID = s.userCourseID
	if uc.StartedAt.IsZero() {
		uc.StartedAt = time.Now()
	}
	s.userCourses[uc.ID] = *uc
	return nil
}

func (s *MemStore) UpdateUserCourse(uc *model.UserCourse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userCourses[uc.ID]; !ok {
		return ErrNotFound
	}
	s.userCourses[uc.ID] = *uc
	return nil
}

// UserLesson operations

func (s *MemStore) GetUserLesson(userID, lessonID uint) (*model.UserLesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.userLessons) {
		ul := s.userLessons[id]
		if ul.UserID == userID && ul.LessonID == lessonID {
			return &ul, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListUserLessonsByCourse(userID, courseID uint) ([]model.UserLesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var uls []model.UserLesson
	for _, id := range sortedKeys(s.userLessons) {
		ul := s.userLessons[id]
		if ul.UserID == userID && ul.CourseID == courseID {
			uls = append(uls, ul)
		}
	}
	return uls, nil
}

func (s *MemStore) CreateUserLesson(ul *model.UserLesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLessonID++
	ul.ID = s.userLessonID
	s.userLessons[ul.ID] = *ul
	return nil
}

func (s *MemStore) UpdateUserLesson(ul *model.UserLesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userLessons[ul.ID]; !ok {
		return ErrNotFound
	}
	s.userLessons[ul.ID] = *ul
	return nil
}

// Certificate operations

func (s *MemStore) GetCertificate(id uint) (*model.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certificates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &cert, nil
}

func (s *MemStore) ListUserCertificates(userID uint) ([]model.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var certs []model.Certificate
	for _, id := range sortedKeys(s.certificates) {
		cert := s.certificates[id]
		if cert.UserID == userID {
			certs = append(certs, cert)
		}
	}
	return certs, nil
}

func (s *MemStore) ListAllCertificates() ([]model.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	certs := make([]model.Certificate, 0, len(s.certificates))
	for _, id := range sortedKeys(s.certificates) {
		certs = append(certs, s.certificates[id])
	}
	return certs, nil
}

func (s *MemStore) CreateCertificate(cert *model.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certificateID++
	cert.ID = s.certificateID
	cert.CreatedAt = time.Now()
	s.certificates[cert.ID] = *cert
	return nil
}

// Reward operations

func (s *MemStore) ListUserRewards(userID uint) ([]model.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rewards []model.Reward
	for _, id := range sortedKeys(s.rewards) {
		reward := s.rewards[id]
		if reward.UserID == userID {
			rewards = append(rewards, reward)
		}
	}
	return rewards, nil
}

func (s *MemStore) ListAllRewards() ([]model.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rewards := make([]model.Reward, 0, len(s.rewards))
	for _, id := range sortedKeys(s.rewards) {
		rewards = append(rewards, s.rewards[id])
	}
	return rewards, nil
}

func (s *MemStore) CreateReward(reward *model.Reward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewardID++
	reward.ID = s.rewardID
	reward.CreatedAt = time.Now()
	s.rewards[reward.ID] = *reward
	return nil
}

// ReferralTier operations

func (s *MemStore) GetReferralTier(tier int) (*model.ReferralTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.referralTiers) {
		rt := s.referralTiers[id]
		if rt.Tier == tier {
			return &rt, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListReferralTiers() ([]model.ReferralTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tiers := make([]model.ReferralTier, 0, len(s.referralTiers))
	for _, id := range sortedKeys(s.referralTiers) {
		tiers = append(tiers, s.referralTiers[id])
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Tier < tiers[j].Tier })
	return tiers, nil
}

func (s *MemStore) CreateReferralTier(tier *model.ReferralTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referralTierID++
	tier.ID = s.referralTierID
	tier.CreatedAt = time.Now()
	tier.UpdatedAt = tier.CreatedAt
	s.referralTiers[tier.ID] = *tier
	return nil
}

func (s *MemStore) UpdateReferralTier(tier *model.ReferralTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.referralTiers[tier.ID]; !ok {
		return ErrNotFound
	}
	tier.UpdatedAt = time.Now()
	s.referralTiers[tier.ID] = *tier
	return nil
}

// sortedKeys returns map keys in ascending order so scans are deterministic.
func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
