package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "classquiz"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// FullQuizKey is where one version of the assembled quiz is cached.
func FullQuizKey(quizID, version int64) string {
	return GenerateCacheKey("quiz", "full", strconv.FormatInt(quizID, 10), "v"+strconv.FormatInt(version, 10))
}

// QuizVersionKey holds the counter bumped on every change to the quiz.
func QuizVersionKey(quizID int64) string {
	return GenerateCacheKey("quiz", "version", strconv.FormatInt(quizID, 10))
}
