package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel is the origin of a lead.
type Channel string

const (
	ChannelWebsite  Channel = "website"
	ChannelReferral Channel = "referral"
	ChannelColdCall Channel = "cold_call"
	ChannelImport   Channel = "import"
)

type Lead struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Channel      Channel    `json:"channel"`
	Status       Status     `json:"status"`
	MessageCount int        `json:"message_count"`
	FollowUpAt   *time.Time `json:"follow_up_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Factory
func NewLead(ownerID, name, email, phone string, channel Channel) (*Lead, error) {
	now := time.Now()
	lead := &Lead{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     phone,
		Channel:   channel,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.OwnerID == "" {
		return errors.New("owner is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Status.IsValid() {
		return errors.New("status is not part of the pipeline")
	}
	return nil
}
