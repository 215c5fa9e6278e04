package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"classquiz/internal/cache"
	"classquiz/internal/domain"
	"classquiz/internal/dto"
	"classquiz/internal/logger"

	"go.uber.org/zap"
)

const DefaultQuizCacheTTL = 10 * time.Minute

// NoQuizVersion is returned when the quiz version could not be read. Nothing is
// cached under it.
const NoQuizVersion int64 = -1

// QuizCacheService caches assembled quizzes. Cache failures are logged and
// treated as misses; they never fail the request.
//
// Entries are keyed by a per-quiz version that Invalidate bumps. A reader takes
// the version before assembling and stores its result under that version, so a
// read that overlaps an edit can only write to a key nobody looks up anymore.
type QuizCacheService interface {
	// GetFullQuiz returns the cached quiz, if any, and the version to pass to
	// PutFullQuiz after assembling it on a miss.
	GetFullQuiz(ctx context.Context, quizID int64) (*dto.FullQuizResponse, int64, bool)
	PutFullQuiz(ctx context.Context, quiz *dto.FullQuizResponse, version int64)
	Invalidate(ctx context.Context, quizIDs ...int64)
}

type quizCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizCacheService returns a cache over c. A nil c disables caching.
func NewQuizCacheService(c domain.Cache, ttl time.Duration) QuizCacheService {
	if ttl <= 0 {
		ttl = DefaultQuizCacheTTL
	}
	return &quizCacheServiceImpl{cache: c, ttl: ttl}
}

func (s *quizCacheServiceImpl) version(ctx context.Context, quizID int64) int64 {
	key := cache.QuizVersionKey(quizID)
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return 0
	}
	if err != nil {
		logger.Get().Warn("QuizCache: version lookup failed", zap.String("key", key), zap.Error(err))
		return NoQuizVersion
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		logger.Get().Warn("QuizCache: bad version", zap.String("key", key), zap.String("value", raw))
		return NoQuizVersion
	}
	return v
}

func (s *quizCacheServiceImpl) GetFullQuiz(ctx context.Context, quizID int64) (*dto.FullQuizResponse, int64, bool) {
	if s.cache == nil {
		return nil, NoQuizVersion, false
	}
	version := s.version(ctx, quizID)
	if version == NoQuizVersion {
		return nil, NoQuizVersion, false
	}

	key := cache.FullQuizKey(quizID, version)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("QuizCache: get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, version, false
	}

	var quiz dto.FullQuizResponse
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		logger.Get().Warn("QuizCache: dropping undecodable entry", zap.String("key", key), zap.Error(err))
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("QuizCache: delete failed", zap.String("key", key), zap.Error(err))
		}
		return nil, version, false
	}
	return &quiz, version, true
}

func (s *quizCacheServiceImpl) PutFullQuiz(ctx context.Context, quiz *dto.FullQuizResponse, version int64) {
	if s.cache == nil || quiz == nil || version == NoQuizVersion {
		return
	}
	b, err := json.Marshal(quiz)
	if err != nil {
		logger.Get().Warn("QuizCache: marshal failed", zap.Int64("quizID", quiz.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cache.FullQuizKey(quiz.ID, version), string(b), s.ttl); err != nil {
		logger.Get().Warn("QuizCache: set failed", zap.Int64("quizID", quiz.ID), zap.Error(err))
	}
}

// Invalidate bumps the version of every quiz. Entries of older versions are
// left to expire.
func (s *quizCacheServiceImpl) Invalidate(ctx context.Context, quizIDs ...int64) {
	if s.cache == nil {
		return
	}
	for _, id := range quizIDs {
		key := cache.QuizVersionKey(id)
		if _, err := s.cache.Incr(ctx, key); err != nil {
			logger.Get().Warn("QuizCache: invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
}
