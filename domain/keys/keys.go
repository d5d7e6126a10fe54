package keys

import (
	"strings"
)

const (
	// PfxParticipation is used for prefixing cached participation lists
	PfxParticipation = "participation"
	// PfxEvents is used for prefixing auction event channels
	PfxEvents = "auctionEvents"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// EventChannel is the pub/sub channel events of the given type are published on
func EventChannel(eventType string) string {
	return RedisKey(PfxEvents, eventType)
}

// GetPrefix extracts the leading two components of a key for metric tagging.
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join(s[:2], ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
