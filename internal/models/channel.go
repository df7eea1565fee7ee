package models

import "time"

// ChannelCategory scopes a channel to one console domain.
type ChannelCategory string

const (
	CategoryAgent       ChannelCategory = "AGENT"
	CategoryAgency      ChannelCategory = "AGENCY"
	CategoryTenant      ChannelCategory = "TENANT"
	CategoryProperty    ChannelCategory = "PROPERTY"
	CategoryPayment     ChannelCategory = "PAYMENT"
	CategorySystem      ChannelCategory = "SYSTEM"
	CategoryReport      ChannelCategory = "REPORT"
	CategoryReservation ChannelCategory = "RESERVATION"
	CategoryTask        ChannelCategory = "TASK"
	CategoryTicket      ChannelCategory = "TICKET"
)

func (c ChannelCategory) Valid() bool {
	switch c {
	case CategoryAgent, CategoryAgency, CategoryTenant, CategoryProperty,
		CategoryPayment, CategorySystem, CategoryReport, CategoryReservation,
		CategoryTask, CategoryTicket:
		return true
	}
	return false
}

// ChannelType controls visibility of a channel in the directory.
type ChannelType string

const (
	ChannelPublic  ChannelType = "PUBLIC"
	ChannelPrivate ChannelType = "PRIVATE"
	ChannelGroup   ChannelType = "GROUP"
)

func (t ChannelType) Valid() bool {
	switch t {
	case ChannelPublic, ChannelPrivate, ChannelGroup:
		return true
	}
	return false
}

// Channel groups messages; soft-deleted channels stay in storage but are
// excluded from directory listings.
type Channel struct {
	ID          string          `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Category    ChannelCategory `bson:"category" json:"category"`
	Type        ChannelType     `bson:"type" json:"type"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time      `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

func (c *Channel) IsDeleted() bool {
	return c.DeletedAt != nil
}

// ChannelFilter is the directory's list query.
type ChannelFilter struct {
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	Name      string          `json:"name,omitempty"`
	Category  ChannelCategory `json:"category,omitempty"`
	Type      ChannelType     `json:"type,omitempty"`
	SortBy    string          `json:"sort_by"`
	SortOrder string          `json:"sort_order"`
}

// PagedChannels is one directory page plus the total match count.
type PagedChannels struct {
	Data     []Channel `json:"data"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
