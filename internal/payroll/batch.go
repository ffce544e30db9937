package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// entryLockTTL bounds how long a bulk transition may hold an entry's
// processing lock if the caller dies mid-flight.
const entryLockTTL = 30 * time.Second

// EntryLocker is the exclusive-access guard BulkTransitionEntries holds
// around each entry's check-and-set.
type EntryLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string)
}

type redisEntryLocker struct {
	client *redis.Client
}

// NewRedisEntryLocker locks via SetNX; the TTL covers callers that die
// holding a lock.
func NewRedisEntryLocker(client *redis.Client) EntryLocker {
	return &redisEntryLocker{client: client}
}

func (l *redisEntryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

func (l *redisEntryLocker) Release(ctx context.Context, key string) {
	l.client.Del(ctx, key)
}

// precedingEntryStatus maps a bulk target to the only status an entry may
// currently hold; the compare-and-set below enforces it atomically.
var precedingEntryStatus = map[string]string{
	RunStatusUnderReview: RunStatusCompleted,
	RunStatusApproved:    RunStatusUnderReview,
	RunStatusLocked:      RunStatusApproved,
}

// BulkTransitionEntries applies one target status to many entries and
// reports per-id results. Two guards keep concurrent callers honest: a
// redis SetNX lock distinguishes "currently being processed", and the
// transactional compare-and-set on status distinguishes "already
// processed". There is never a plain read-then-write pair.
func (s *service) BulkTransitionEntries(ctx context.Context, orgID, actorID string, req BulkTransitionRequest) ([]BulkTransitionResult, error) {
	if len(req.IDs) == 0 {
		return nil, payrollerrors.ErrEmptyBatch
	}
	fromStatus, ok := precedingEntryStatus[req.TargetStatus]
	if !ok {
		return nil, payrollerrors.ErrInvalidStatusTransition
	}

	results := make([]BulkTransitionResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		err := s.transitionEntry(ctx, orgID, id, fromStatus, req.TargetStatus)
		result := BulkTransitionResult{ID: id, Success: err == nil}
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				result.Error = appErr.Message
			} else {
				result.Error = "internal error"
			}
		}
		results = append(results, result)
	}

	succeeded := 0
	for _, result := range results {
		if result.Success {
			succeeded++
		}
	}
	s.logger.Info("bulk transition entries done",
		zap.String("org_id", orgID),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.TargetStatus),
		zap.Int("total", len(results)),
		zap.Int("succeeded", succeeded),
	)
	return results, nil
}

func (s *service) transitionEntry(ctx context.Context, orgID, id, fromStatus, toStatus string) error {
	lockKey := "payroll:entry:processing:" + id
	acquired, err := s.locker.Acquire(ctx, lockKey, entryLockTTL)
	if err != nil {
		s.logger.Error("entry lock acquire failed", zap.String("entry_id", id), zap.Error(err))
		return err
	}
	if !acquired {
		return payrollerrors.ErrCurrentlyProcessing
	}
	defer s.locker.Release(ctx, lockKey)

	transitioned, err := s.repo.UpdateEntryStatusCAS(ctx, orgID, id, fromStatus, toStatus)
	if err != nil {
		s.logger.Error("entry status CAS failed", zap.String("entry_id", id), zap.Error(err))
		return err
	}
	if !transitioned {
		// A missed compare-and-set covers two cases: the entry moved on
		// already, or the id never existed. Only the follow-up read can
		// tell them apart.
		if _, err := s.repo.FindEntryByIDAndOrg(ctx, orgID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payrollerrors.ErrEntryNotFound
			}
			return err
		}
		return payrollerrors.ErrAlreadyProcessed
	}
	return nil
}
