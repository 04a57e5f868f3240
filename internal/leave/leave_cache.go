package leave

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PendingApprovalsKeyPrefix    = "leaves:pending:"
	PendingApprovalsGenKeyPrefix = "leaves:pending:gen:"
	pendingApprovalsTTL          = 5 * time.Minute
	pendingApprovalsGenTTL       = 24 * time.Hour
)

func GetPendingApprovalsKey(managerID uuid.UUID) string {
	return PendingApprovalsKeyPrefix + managerID.String()
}

// GetPendingApprovalsGenKey holds a counter bumped on every invalidation.
// Cached lists remember the generation they were built from.
func GetPendingApprovalsGenKey(managerID uuid.UUID) string {
	return PendingApprovalsGenKeyPrefix + managerID.String()
}

type pendingCacheEntry struct {
	Gen   string          `json:"gen"`
	Items []LeaveResponse `json:"items"`
}

// readPendingCache returns the cached list when it was built from the
// current generation, plus the generation observed before any refill.
func (s *service) readPendingCache(ctx context.Context, managerID uuid.UUID) ([]LeaveResponse, string, bool) {
	if s.rdb == nil {
		return nil, "", false
	}
	vals, err := s.rdb.MGet(ctx, GetPendingApprovalsKey(managerID), GetPendingApprovalsGenKey(managerID)).Result()
	if err != nil || len(vals) != 2 {
		return nil, "", false
	}

	gen, _ := vals[1].(string)
	cached, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	var entry pendingCacheEntry
	if json.Unmarshal([]byte(cached), &entry) != nil {
		return nil, gen, false
	}
	// ditulis sebelum invalidasi terakhir, anggap miss
	if entry.Gen != gen {
		return nil, gen, false
	}
	return entry.Items, gen, true
}

func (s *service) writePendingCache(ctx context.Context, managerID uuid.UUID, gen string, resp []LeaveResponse) {
	if s.rdb == nil {
		return
	}
	jsonData, err := json.Marshal(pendingCacheEntry{Gen: gen, Items: resp})
	if err != nil {
		return
	}
	key := GetPendingApprovalsKey(managerID)
	if err := s.rdb.Set(ctx, key, jsonData, pendingApprovalsTTL).Err(); err != nil {
		s.logger.Warn("failed to cache pending approvals", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidatePendingCache(ctx context.Context, managerID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	genKey := GetPendingApprovalsGenKey(managerID)
	if err := s.rdb.Incr(ctx, genKey).Err(); err != nil {
		s.logger.Error("failed to bump pending approvals generation",
			zap.String("key", genKey),
			zap.Error(err),
		)
	} else if err := s.rdb.Expire(ctx, genKey, pendingApprovalsGenTTL).Err(); err != nil {
		s.logger.Warn("failed to set pending approvals generation ttl", zap.String("key", genKey), zap.Error(err))
	}

	cacheKey := GetPendingApprovalsKey(managerID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate pending approvals cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}
