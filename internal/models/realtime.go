package models

// ChannelEvent is the mutation notice published over pub/sub whenever a
// channel's log changes. Subscribers re-read the full ordered list on every
// event rather than applying incremental diffs.
type ChannelEvent struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Snapshot is what a live subscription delivers: the channel's entire
// ordered message list, ascending by creation time.
type Snapshot struct {
	ChannelID string    `json:"channel_id"`
	Messages  []Message `json:"messages"`
}
