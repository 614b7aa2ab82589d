package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type timetableSessionRepository interface {
	ListByScope(ctx context.Context, scope models.Scope) ([]models.Session, error)
	ListAll(ctx context.Context) ([]models.Session, error)
	FindClashCandidates(ctx context.Context, exec sqlx.ExtContext, day, lecturerID, roomID string, exclude models.Scope) ([]models.Session, error)
	ReplaceScope(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, sessions []models.Session) error
}

type timetableVersionRepository interface {
	CurrentPointer(ctx context.Context, exec sqlx.ExtContext, scope models.Scope) (int, error)
	SetPointer(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, version int) error
	LatestVersion(ctx context.Context, exec sqlx.ExtContext, scope models.Scope) (int, error)
	Append(ctx context.Context, exec sqlx.ExtContext, version *models.TimetableVersion) error
	GetVersion(ctx context.Context, exec sqlx.ExtContext, scope models.Scope, number int) (*models.TimetableVersion, error)
}

type timetableClassroomRepository interface {
	FindByRoomID(ctx context.Context, exec sqlx.ExtContext, roomID string) (*models.Classroom, error)
}

type timetableLockChecker interface {
	IsLocked(ctx context.Context) (bool, error)
}

type scopeTxRunner interface {
	WithScopeTx(ctx context.Context, scope models.Scope, fn func(tx *sqlx.Tx) error) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

const timetableCachePrefix = "timetable:view:"

// TimetableService owns the versioned timetable store: atomic batch saves,
// reads at the current version pointer, and rollback/unrollback.
type TimetableService struct {
	sessions    timetableSessionRepository
	versions    timetableVersionRepository
	classrooms  timetableClassroomRepository
	locks       timetableLockChecker
	tx          scopeTxRunner
	cache       timetableCache
	validator   *validator.Validate
	logger      *zap.Logger
	cacheTTL    time.Duration
	maxDuration models.ClockTime
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(
	sessions timetableSessionRepository,
	versions timetableVersionRepository,
	classrooms timetableClassroomRepository,
	locks timetableLockChecker,
	tx scopeTxRunner,
	cache timetableCache,
	validate *validator.Validate,
	cfg *config.Config,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	maxMinutes := cfg.Scheduling.MaxSessionMinutes
	if maxMinutes <= 0 {
		maxMinutes = 120
	}
	return &TimetableService{
		sessions:    sessions,
		versions:    versions,
		classrooms:  classrooms,
		locks:       locks,
		tx:          tx,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		cacheTTL:    cfg.Cache.TimetableTTL,
		maxDuration: models.ClockTime(maxMinutes * 60),
	}
}

// Save atomically replaces the scope's session set and appends a new version.
// The whole batch validates and commits, or nothing changes. The clash rules
// are re-applied here no matter what an earlier advisory check reported,
// because other saves may have landed in between.
func (s *TimetableService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "every entry needs a course, lecturer, classroom, day and time range")
	}

	locked, err := s.locks.IsLocked(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check edit lock")
	}
	if locked {
		return &dto.SaveTimetableResponse{Status: dto.StatusLocked, Error: appErrors.ErrEditLocked.Message}, nil
	}

	scope := models.Scope{ProgramName: req.ProgramName, Year: req.Year}

	sessions := make([]models.Session, 0, len(req.Entries))
	intervals := make([]*interval, 0, len(req.Entries))
	seenIDs := make(map[string]struct{}, len(req.Entries))
	for _, entry := range req.Entries {
		iv, err := parseInterval(entry.DayOfWeek, entry.StartTime, entry.EndTime, s.maxDuration)
		if err != nil {
			return nil, err
		}

		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		// Duplicate IDs would defeat the pairwise check's self-exclusion and
		// then break the primary key on insert.
		if _, dup := seenIDs[id]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate entry id %q", id))
		}
		seenIDs[id] = struct{}{}
		sessions = append(sessions, models.Session{
			ID:          id,
			CourseID:    entry.CourseID,
			ProgramName: scope.ProgramName,
			Year:        scope.Year,
			LecturerID:  entry.LecturerID,
			RoomID:      entry.RoomID,
			DayOfWeek:   entry.DayOfWeek,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			CreatedAt:   time.Now().UTC(),
		})
		intervals = append(intervals, iv)
	}

	// In-batch pairwise check before touching the store.
	for i := range sessions {
		clash, err := firstClash(sessions[i].ID, sessions[i].LecturerID, sessions[i].RoomID, intervals[i], sessions[:i])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt session data")
		}
		if clash != nil {
			return &dto.SaveTimetableResponse{Status: dto.StatusFailure, Error: clash.Message}, nil
		}
	}

	snapshot, err := json.Marshal(sessions)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode snapshot")
	}

	txErr := s.tx.WithScopeTx(ctx, scope, func(tx *sqlx.Tx) error {
		// Locked classrooms are excluded from scheduling entirely, so a batch
		// referencing one never commits.
		checkedRooms := make(map[string]struct{}, len(sessions))
		for i := range sessions {
			roomID := sessions[i].RoomID
			if _, done := checkedRooms[roomID]; done {
				continue
			}
			checkedRooms[roomID] = struct{}{}

			room, err := s.classrooms.FindByRoomID(ctx, tx, roomID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown classroom %q", roomID))
				}
				return err
			}
			if room.Locked {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("classroom %s is locked and excluded from scheduling", roomID))
			}
		}

		// Authoritative cross-scope re-check: a lecturer teaches in one place
		// at a time regardless of which program the class belongs to. The
		// scope being saved is excluded since it is replaced wholesale.
		for i := range sessions {
			existing, err := s.sessions.FindClashCandidates(ctx, tx,
				sessions[i].DayOfWeek, sessions[i].LecturerID, sessions[i].RoomID, scope)
			if err != nil {
				return err
			}
			clash, err := firstClash(sessions[i].ID, sessions[i].LecturerID, sessions[i].RoomID, intervals[i], existing)
			if err != nil {
				return err
			}
			if clash != nil {
				return clash
			}
		}

		pointer, err := s.versions.CurrentPointer(ctx, tx, scope)
		if err != nil {
			return err
		}
		next := pointer + 1

		if err := s.versions.Append(ctx, tx, &models.TimetableVersion{
			ProgramName: scope.ProgramName,
			Year:        scope.Year,
			Version:     next,
			Entries:     snapshot,
		}); err != nil {
			return err
		}
		if err := s.sessions.ReplaceScope(ctx, tx, scope, sessions); err != nil {
			return err
		}
		return s.versions.SetPointer(ctx, tx, scope, next)
	})
	if txErr != nil {
		var clash *models.ClashError
		if errors.As(txErr, &clash) {
			return &dto.SaveTimetableResponse{Status: dto.StatusFailure, Error: clash.Message}, nil
		}
		if appErrors.FromError(txErr).Code == appErrors.ErrValidation.Code {
			return nil, txErr
		}
		return nil, appErrors.Wrap(txErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}

	s.invalidateCache(ctx)
	s.logger.Info("timetable saved",
		zap.String("scope", scope.String()),
		zap.Int("entries", len(sessions)),
	)
	return &dto.SaveTimetableResponse{Status: dto.StatusSuccess}, nil
}

// Fetch returns the session set at the scope's current version pointer. With
// no scope it returns every saved session, the read-only published view.
func (s *TimetableService) Fetch(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error) {
	key := timetableCachePrefix + "all"
	if !scope.IsZero() {
		key = fmt.Sprintf("%s%s:%d", timetableCachePrefix, scope.ProgramName, scope.Year)
	}

	var cached []models.Session
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &dto.FetchTimetableResponse{Status: dto.StatusSuccess, Entries: cached}, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("timetable cache read failed", zap.Error(err))
	}

	var entries []models.Session
	var err error
	if scope.IsZero() {
		entries, err = s.sessions.ListAll(ctx)
	} else {
		entries, err = s.sessions.ListByScope(ctx, scope)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if entries == nil {
		entries = []models.Session{}
	}

	if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
		s.logger.Warn("timetable cache write failed", zap.Error(err))
	}

	return &dto.FetchTimetableResponse{Status: dto.StatusSuccess, Entries: entries}, nil
}

// Rollback moves the scope's version pointer one step back and returns that
// version's entries. At the earliest version the pointer stays put and a
// failure status is returned.
func (s *TimetableService) Rollback(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error) {
	return s.moveVersion(ctx, scope, -1)
}

// Unrollback moves the pointer one step forward, symmetrically.
func (s *TimetableService) Unrollback(ctx context.Context, scope models.Scope) (*dto.FetchTimetableResponse, error) {
	return s.moveVersion(ctx, scope, +1)
}

func (s *TimetableService) moveVersion(ctx context.Context, scope models.Scope, delta int) (*dto.FetchTimetableResponse, error) {
	if scope.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "program and year are required")
	}

	var entries []models.Session
	txErr := s.tx.WithScopeTx(ctx, scope, func(tx *sqlx.Tx) error {
		pointer, err := s.versions.CurrentPointer(ctx, tx, scope)
		if err != nil {
			return err
		}

		target := pointer + delta
		if target < 1 {
			return appErrors.Clone(appErrors.ErrVersionBoundary, "already at the earliest version")
		}
		latest, err := s.versions.LatestVersion(ctx, tx, scope)
		if err != nil {
			return err
		}
		if target > latest {
			return appErrors.Clone(appErrors.ErrVersionBoundary, "already at the latest version")
		}

		version, err := s.versions.GetVersion(ctx, tx, scope, target)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(version.Entries, &entries); err != nil {
			return fmt.Errorf("decode snapshot %d for scope %s: %w", target, scope, err)
		}

		if err := s.sessions.ReplaceScope(ctx, tx, scope, entries); err != nil {
			return err
		}
		return s.versions.SetPointer(ctx, tx, scope, target)
	})
	if txErr != nil {
		appErr := appErrors.FromError(txErr)
		if appErr.Code == appErrors.ErrVersionBoundary.Code {
			current, err := s.sessions.ListByScope(ctx, scope)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
			}
			return &dto.FetchTimetableResponse{Status: dto.StatusFailure, Entries: current, Message: appErr.Message}, nil
		}
		return nil, appErrors.Wrap(txErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move timetable version")
	}

	s.invalidateCache(ctx)
	if entries == nil {
		entries = []models.Session{}
	}
	return &dto.FetchTimetableResponse{Status: dto.StatusSuccess, Entries: entries}, nil
}

func (s *TimetableService) invalidateCache(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, timetableCachePrefix+"*"); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
	}
}
