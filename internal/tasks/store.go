package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"sneaker_store_echo/internal/models"
)

// TaskStore persists scheduled tasks and their run history.
type TaskStore interface {
	Create(ctx context.Context, task *models.ScheduledTask) error
	DueTasks(ctx context.Context, now time.Time) ([]models.ScheduledTask, error)
	Reload(ctx context.Context, id uint) (*models.ScheduledTask, error)
	UpdateTask(ctx context.Context, task *models.ScheduledTask, updates map[string]interface{}) error
	RecordRun(ctx context.Context, history *models.ScheduledTaskHistory) error
}

type GormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) Create(ctx context.Context, task *models.ScheduledTask) error {
	return s.db.WithContext(ctx).Create(task).Error
}

func (s *GormTaskStore) DueTasks(ctx context.Context, now time.Time) ([]models.ScheduledTask, error) {
	var due []models.ScheduledTask
	err := s.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).
		Order("due ASC").
		Find(&due).Error
	return due, err
}

func (s *GormTaskStore) Reload(ctx context.Context, id uint) (*models.ScheduledTask, error) {
	var task models.ScheduledTask
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *GormTaskStore) UpdateTask(ctx context.Context, task *models.ScheduledTask, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(task).Updates(updates).Error
}

func (s *GormTaskStore) RecordRun(ctx context.Context, history *models.ScheduledTaskHistory) error {
	return s.db.WithContext(ctx).Create(history).Error
}

// MemoryTaskStore keeps tasks in process; used when no database is
// configured and in tests.
type MemoryTaskStore struct {
	mu      sync.Mutex
	nextID  uint
	tasks   map[uint]*models.ScheduledTask
	history []models.ScheduledTaskHistory
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[uint]*models.ScheduledTask)}
}

func (s *MemoryTaskStore) Create(_ context.Context, task *models.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *MemoryTaskStore) DueTasks(_ context.Context, now time.Time) ([]models.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.ScheduledTask
	for _, t := range s.tasks {
		if t.Status == models.ScheduledTaskStatusActive && !t.Due.After(now) {
			due = append(due, *t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Due.Equal(due[j].Due) {
			return due[i].ID < due[j].ID
		}
		return due[i].Due.Before(due[j].Due)
	})
	return due, nil
}

func (s *MemoryTaskStore) Reload(_ context.Context, id uint) (*models.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryTaskStore) UpdateTask(_ context.Context, task *models.ScheduledTask, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[task.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "status":
			t.Status = v.(models.ScheduledTaskStatus)
		case "due":
			t.Due = v.(time.Time)
		case "last_run":
			t.LastRun = v.(*time.Time)
		}
	}
	return nil
}

func (s *MemoryTaskStore) RecordRun(_ context.Context, history *models.ScheduledTaskHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, *history)
	return nil
}

// Task returns a copy of the stored task.
func (s *MemoryTaskStore) Task(id uint) (models.ScheduledTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.ScheduledTask{}, false
	}
	return *t, true
}

func (s *MemoryTaskStore) History() []models.ScheduledTaskHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ScheduledTaskHistory(nil), s.history...)
}
