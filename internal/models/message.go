package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single immutable entry in a channel's log.
// CreatedAt is assigned by the storage layer on write and is monotonically
// non-decreasing per channel. Reads order by (created_at, _id): ObjectIDs
// grow with insertion, so timestamp ties resolve to arrival order at the log.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChannelID string             `bson:"channel_id" json:"channel_id"`
	SenderID  string             `bson:"sender_id" json:"sender_id"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
