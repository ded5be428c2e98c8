package domain

import "time"

// ChatGroup is a row in the chat_group_dtl admin table.
type ChatGroup struct {
	// ID is the primary key, assigned by the store on creation.
	ID int64

	// UserID owns the group.
	UserID string

	// Name is the group display name.
	Name string

	// Description is free-form text.
	Description string

	// Active marks the group as usable for new chats.
	Active bool

	// CreatedAt is the audit timestamp.
	CreatedAt time.Time
}

// ChatGroupUpdate carries a partial update for a ChatGroup. Nil fields
// are left unchanged; only these fields may be updated.
type ChatGroupUpdate struct {
	UserID      *string
	Name        *string
	Description *string
	Active      *bool
}

// ChatGroupFilter narrows a group listing.
type ChatGroupFilter struct {
	// ActiveOnly keeps only groups marked active.
	ActiveOnly bool
}

// ChatHistoryFilter narrows a history listing.
type ChatHistoryFilter struct {
	// GroupID, when non-zero, keeps only one group's exchanges.
	GroupID int64

	// Limit, when positive, caps the number of records returned.
	Limit int
}

// ChatHistoryRecord is a row in the chat_history admin table, one per
// completed question/answer exchange.
type ChatHistoryRecord struct {
	// ID is the primary key, assigned by the store on creation.
	ID int64

	// UserID is who asked.
	UserID string

	// UserInquiry is the question text.
	UserInquiry string

	// AssistantResponse is the answer text.
	AssistantResponse string

	// ReferenceID links the exchange to the session log request id.
	ReferenceID string

	// ChatGroupID links to a ChatGroup; zero means ungrouped.
	ChatGroupID int64

	// CreatedAt is the audit timestamp.
	CreatedAt time.Time
}

// ChatHistoryUpdate carries a partial update for a ChatHistoryRecord.
type ChatHistoryUpdate struct {
	UserID            *string
	UserInquiry       *string
	AssistantResponse *string
	ReferenceID       *string
	ChatGroupID       *int64
}
