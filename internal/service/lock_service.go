package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type lockRepository interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
	IsLocked(ctx context.Context) (bool, error)
}

// LockService toggles the cooperative edit lock. Both operations are
// idempotent so client retries never error.
type LockService struct {
	locks  lockRepository
	logger *zap.Logger
}

// NewLockService instantiates LockService.
func NewLockService(locks lockRepository, logger *zap.Logger) *LockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockService{locks: locks, logger: logger}
}

// Lock freezes timetable editing.
func (s *LockService) Lock(ctx context.Context) error {
	if err := s.locks.Acquire(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire edit lock")
	}
	s.logger.Info("timetable editing locked")
	return nil
}

// Release resumes timetable editing.
func (s *LockService) Release(ctx context.Context) error {
	if err := s.locks.Release(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release edit lock")
	}
	s.logger.Info("timetable editing unlocked")
	return nil
}

// Status reports the lock state.
func (s *LockService) Status(ctx context.Context) (bool, error) {
	locked, err := s.locks.IsLocked(ctx)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check edit lock")
	}
	return locked, nil
}
