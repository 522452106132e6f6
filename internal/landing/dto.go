package landing

import (
	"storytrain_landing/internal/leadform"
)

// Request DTOs
type CreateSessionRequest struct {
	Path string `json:"path" validate:"max=2048"`
}

type ScrollRequest struct {
	ScrollTop      float64 `json:"scrollTop"`
	ViewportHeight float64 `json:"viewportHeight" validate:"gte=0"`
	DocumentHeight float64 `json:"documentHeight" validate:"gte=0"`
}

type ClickRequest struct {
	ElementID string `json:"elementId" validate:"required,max=100"`
}

type DraftRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,max=320"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`
}

func (r DraftRequest) patch() leadform.DraftPatch {
	return leadform.DraftPatch{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// Response DTOs
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type ScrollResponse struct {
	Depth float64 `json:"depth"`
	Fired []int   `json:"fired"`
}

type ClickResponse struct {
	ScrollTo string `json:"scrollTo"`
}

type DraftResponse struct {
	Draft leadform.Draft `json:"draft"`
	State string         `json:"state"`
}

type LeadResponse struct {
	Outcome      leadform.Outcome      `json:"outcome"`
	Notification leadform.Notification `json:"notification"`
	Draft        leadform.Draft        `json:"draft"`
	State        string                `json:"state"`
}

type NotificationsResponse struct {
	Notifications []leadform.Notification `json:"notifications"`
}
