package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleBrand   = "brand"
	RoleCreator = "creator"
)

type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	DisplayName    string     `json:"display_name"`
	ChannelURL     *string    `json:"channel_url,omitempty"` // creators: public channel page
	Followers      *int       `json:"followers,omitempty"`
	AvgViews       *int       `json:"avg_views,omitempty"`
	StatsFetchedAt *time.Time `json:"stats_fetched_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActiveAt   time.Time  `json:"last_active_at"`
}
