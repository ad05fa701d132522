package config

import "time"

const (
	// Search
	MaxSearchResults = 20
	// ReasonMaxListedSkills caps how many matched skills the reason text
	// names before collapsing the rest into a count.
	ReasonMaxListedSkills = 3

	// Profile cache
	ProfileCacheTTL = 60 * time.Second

	// WebSocket pumps
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096

	// Moderation context kinds sent to the moderation service.
	ModerationKindRequestMessage = "mentorship_request"
	ModerationKindChatMessage    = "chat_message"
)
