package events

import "time"

// Topic names are a deployment-time mapping; the payload schemas below
// are the actual contract between services.
const (
	TopicCommentCreated = "comment.created"
	TopicCommentDeleted = "comment.deleted"
	TopicReplyCreated   = "reply.created"
	TopicReplyDeleted   = "reply.deleted"

	TopicUserProfileCreated = "userprofile.created"
	TopicUserProfileUpdated = "userprofile.updated"

	TopicPetProfileUpdated = "petprofile.updated"
	TopicPetProfileDeleted = "petprofile.deleted"

	TopicFavoriteUpdated = "favorite.updated"
)

// CommentCreated carries the full projected view of a new root comment.
type CommentCreated struct {
	CommentCode string    `json:"commentCode"`
	FeedCode    string    `json:"feedCode"`
	FeedUUID    string    `json:"feedUuid"`
	UserUUID    string    `json:"userUuid"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReplyCreated carries the full projected view of a new reply.
type ReplyCreated struct {
	CommentCode       string    `json:"commentCode"`
	FeedCode          string    `json:"feedCode"`
	FeedUUID          string    `json:"feedUuid"`
	UserUUID          string    `json:"userUuid"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"createdAt"`
	ParentCommentCode string    `json:"parentCommentCode"`
}

// CommentDeleted is the pre-delete snapshot of a root comment.
type CommentDeleted struct {
	CommentCode string `json:"commentCode"`
	FeedCode    string `json:"feedCode"`
	UserUUID    string `json:"userUuid"`
}

// ReplyDeleted is the pre-delete snapshot of a reply.
type ReplyDeleted struct {
	CommentCode       string `json:"commentCode"`
	FeedCode          string `json:"feedCode"`
	ParentCommentCode string `json:"parentCommentCode"`
}

// UserProfileUpdated announces a change to denormalized profile fields.
// Empty fields were not updated.
type UserProfileUpdated struct {
	UserUUID string `json:"userUuid"`
	Nickname string `json:"nickname,omitempty"`
	Image    string `json:"image,omitempty"`
}

type UserProfileCreated struct {
	UserUUID string `json:"userUuid"`
	Nickname string `json:"nickname"`
	Tag      string `json:"tag"`
	Image    string `json:"image"`
}

type PetProfileUpdated struct {
	PetCode  string  `json:"petCode"`
	UserUUID string  `json:"userUuid"`
	Name     string  `json:"name"`
	Breed    string  `json:"breed"`
	Image    string  `json:"image"`
	Weight   float64 `json:"weight"`
}

type PetProfileDeleted struct {
	PetCode  string `json:"petCode"`
	UserUUID string `json:"userUuid"`
}

type FavoriteUpdated struct {
	UserUUID string `json:"userUuid"`
	FeedCode string `json:"feedCode"`
	Active   bool   `json:"active"`
}
