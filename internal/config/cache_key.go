package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AccountSessionKey returns the cache key for an account's login session.
func (r *CacheKeyStruct) AccountSessionKey(accountID string) string {
	return fmt.Sprintf("login:%s", accountID)
}

// DayScheduleKey returns the cache key for the cached schedule of one day.
func (r *CacheKeyStruct) DayScheduleKey(date time.Time) string {
	return fmt.Sprintf("schedule:%s", date.UTC().Format("2006-01-02"))
}

// ScheduleEventsChannel returns the Redis PubSub channel carrying term
// change events for the WebSocket schedule stream.
func (r *CacheKeyStruct) ScheduleEventsChannel() string {
	return "schedule:events"
}

var CacheKey = NewCacheKeyStruct()
