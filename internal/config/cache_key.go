package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionSnapshotKey returns the cache key for a battle session's live snapshot.
func (r *CacheKeyStruct) SessionSnapshotKey(sessionID string) string {
	return fmt.Sprintf("battle:%s:snapshot", sessionID)
}

// BossActiveSessionKey returns the cache key mapping a boss to its active session.
func (r *CacheKeyStruct) BossActiveSessionKey(bossID string) string {
	return fmt.Sprintf("boss:%s:active_session", bossID)
}

var CacheKey = NewCacheKeyStruct()
