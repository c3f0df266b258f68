package models

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	NoticeAnnouncement = "announcement"
	NoticeSchedule     = "schedule"
	NoticeAlert        = "alert"
	NoticeMaintenance  = "maintenance"
	NoticeGeneral      = "general"
)

const (
	NoticeStatusActive   = "active"
	NoticeStatusInactive = "inactive"
	NoticeStatusExpired  = "expired"
)

const (
	AudienceAll        = "all"
	AudiencePublic     = "public"
	AudienceCollectors = "collectors"
	AudienceAdmins     = "admins"
)

const (
	MaxNoticeTitle   = 100
	MaxNoticeContent = 1000
)

var noticeTypes = map[string]bool{
	NoticeAnnouncement: true, NoticeSchedule: true, NoticeAlert: true,
	NoticeMaintenance: true, NoticeGeneral: true,
}

// noticePriorityRank orders notices from most to least severe
var noticePriorityRank = map[string]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

var audiences = map[string]bool{
	AudienceAll: true, AudiencePublic: true, AudienceCollectors: true, AudienceAdmins: true,
}

type Notice struct {
	ID             string `json:"id" db:"id"`
	Title          string `json:"title" db:"title"`
	Content        string `json:"content" db:"content"`
	Priority       string `json:"priority" db:"priority"`
	Type           string `json:"type" db:"type"`
	CreatedBy      string `json:"created_by" db:"created_by"`
	Status         string `json:"status" db:"status"`
	ExpiresAt      *int64 `json:"expires_at,omitempty" db:"expires_at"` // Unix timestamp
	TargetAudience string `json:"target_audience" db:"target_audience"`
	CreatedAt      int64  `json:"created_at" db:"created_at"`
	UpdatedAt      int64  `json:"updated_at" db:"updated_at"`
}

type NoticeResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	Priority       string  `json:"priority"`
	PriorityColor  string  `json:"priorityColor"`
	Type           string  `json:"type"`
	CreatedBy      string  `json:"createdBy"`
	Status         string  `json:"status"`
	ExpiresAt      *string `json:"expiresAt,omitempty"`
	TargetAudience string  `json:"targetAudience"`
	CreatedAt      string  `json:"createdAt"`
}

// IsActive reports whether the notice should be shown at the given instant
func (n *Notice) IsActive(now time.Time) bool {
	if n.Status != NoticeStatusActive {
		return false
	}
	return n.ExpiresAt == nil || *n.ExpiresAt > now.Unix()
}

func (n *Notice) ToNoticeResponse() NoticeResponse {
	resp := NoticeResponse{
		ID:             n.ID,
		Title:          n.Title,
		Content:        n.Content,
		Priority:       n.Priority,
		PriorityColor:  NoticePriorityColor(n.Priority),
		Type:           n.Type,
		CreatedBy:      n.CreatedBy,
		Status:         n.Status,
		TargetAudience: n.TargetAudience,
		CreatedAt:      time.Unix(n.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
	if n.ExpiresAt != nil {
		iso := time.Unix(*n.ExpiresAt, 0).UTC().Format(time.RFC3339)
		resp.ExpiresAt = &iso
	}
	return resp
}

func ToNoticeResponses(notices []Notice) []NoticeResponse {
	responses := make([]NoticeResponse, len(notices))
	for i := range notices {
		responses[i] = notices[i].ToNoticeResponse()
	}
	return responses
}

// NoticePriorityRank returns the sort rank of a notice priority (lower is more severe)
func NoticePriorityRank(priority string) int {
	if rank, ok := noticePriorityRank[priority]; ok {
		return rank
	}
	return len(noticePriorityRank)
}

// ActiveNotices keeps the notices visible at now, most severe first, then newest first
func ActiveNotices(notices []Notice, now time.Time) []Notice {
	active := make([]Notice, 0, len(notices))
	for i := range notices {
		if notices[i].IsActive(now) {
			active = append(active, notices[i])
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		ri, rj := NoticePriorityRank(active[i].Priority), NoticePriorityRank(active[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return active[i].CreatedAt > active[j].CreatedAt
	})
	return active
}

func NoticePriorityColor(priority string) string {
	switch priority {
	case PriorityUrgent:
		return "#D32F2F"
	case PriorityHigh:
		return "#F44336"
	case PriorityMedium:
		return "#FF9800"
	default:
		return "#4CAF50"
	}
}

// CreateNoticeRequest is the body of POST /api/notices
type CreateNoticeRequest struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Priority       string     `json:"priority,omitempty"`
	Type           string     `json:"type,omitempty"`
	AdminID        string     `json:"adminId,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	TargetAudience string     `json:"targetAudience,omitempty"`
}

// ToNotice validates the request and builds an active notice
func (r CreateNoticeRequest) ToNotice(id, createdBy string, now time.Time) (Notice, error) {
	title := strings.TrimSpace(r.Title)
	content := strings.TrimSpace(r.Content)
	if title == "" || content == "" {
		return Notice{}, NewValidationError("missing_fields", "title and content are required")
	}
	if utf8.RuneCountInString(title) > MaxNoticeTitle {
		return Notice{}, NewValidationError("title_too_long", "title must be 100 characters or fewer")
	}
	if utf8.RuneCountInString(content) > MaxNoticeContent {
		return Notice{}, NewValidationError("content_too_long", "content must be 1000 characters or fewer")
	}

	priority := PriorityMedium
	if p := strings.TrimSpace(r.Priority); p != "" {
		if _, ok := noticePriorityRank[p]; !ok {
			return Notice{}, NewValidationError("invalid_priority", "priority must be low, medium, high or urgent")
		}
		priority = p
	}

	noticeType := NoticeGeneral
	if t := strings.TrimSpace(r.Type); t != "" {
		if !noticeTypes[t] {
			return Notice{}, NewValidationError("invalid_type", "unknown notice type")
		}
		noticeType = t
	}

	audience := AudienceAll
	if a := strings.TrimSpace(r.TargetAudience); a != "" {
		if !audiences[a] {
			return Notice{}, NewValidationError("invalid_target_audience", "unknown target audience")
		}
		audience = a
	}

	createdBy = strings.TrimSpace(createdBy)
	if createdBy == "" {
		return Notice{}, NewValidationError("missing_admin_id", "adminId is required")
	}

	notice := Notice{
		ID:             id,
		Title:          title,
		Content:        content,
		Priority:       priority,
		Type:           noticeType,
		CreatedBy:      createdBy,
		Status:         NoticeStatusActive,
		TargetAudience: audience,
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	}
	if r.ExpiresAt != nil {
		if !r.ExpiresAt.After(now) {
			return Notice{}, NewValidationError("invalid_expires_at", "expiresAt must be in the future")
		}
		exp := r.ExpiresAt.Unix()
		notice.ExpiresAt = &exp
	}
	return notice, nil
}
