package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the key of the set holding the JTIs of a user's live logins.
func (r *CacheKeyStruct) UserSessionKey(userID uuid.UUID) string {
	return fmt.Sprintf("login:%s", userID)
}

// AttendanceFeedChannel returns the Redis PubSub channel that carries
// attendance events for one civil date (YYYY-MM-DD).
func (r *CacheKeyStruct) AttendanceFeedChannel(date string) string {
	return fmt.Sprintf("attendance:%s:feed", date)
}

var CacheKey = NewCacheKeyStruct()
