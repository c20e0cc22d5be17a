// Package models contains the GORM entities for the video knowledge base.
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Watch status values for Video.WatchStatus.
const (
	StatusUnwatched = "unwatched"
	StatusWatching  = "watching"
	StatusWatched   = "watched"
)

// Video represents a cataloged YouTube video.
type Video struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	YouTubeID       string         `gorm:"uniqueIndex;not null" json:"youtube_id"`
	URL             string         `gorm:"not null" json:"url"`
	Title           string         `gorm:"not null" json:"title"`
	Author          string         `json:"author"`
	Description     string         `gorm:"type:text" json:"description"`
	DurationSeconds *int           `json:"duration_seconds,omitempty"`
	UploadedAt      *time.Time     `json:"uploaded_at,omitempty"`
	CategoryID      *uint          `gorm:"index" json:"category_id,omitempty"`
	Category        *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags            datatypes.JSON `gorm:"type:json" json:"tags"`
	WatchStatus     string         `gorm:"default:'unwatched'" json:"watch_status"`
	Transcript      *string        `gorm:"type:text" json:"transcript,omitempty"`
	SummaryQuick    *string        `gorm:"type:text" json:"summary_quick,omitempty"`
	SummaryDetailed *string        `gorm:"type:text" json:"summary_detailed,omitempty"`
	SummaryKeyPoints datatypes.JSON `gorm:"type:json" json:"summary_key_points,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TagList decodes the serialized tag column. A missing column decodes to an
// empty list, never nil.
func (v *Video) TagList() []string {
	return decodeStrings(v.Tags)
}

// SetTags serializes tags into the JSON column.
func (v *Video) SetTags(tags []string) {
	v.Tags = encodeStrings(tags)
}

// KeyPoints decodes the serialized key-point column.
func (v *Video) KeyPoints() []string {
	return decodeStrings(v.SummaryKeyPoints)
}

// SetKeyPoints serializes key points into the JSON column.
func (v *Video) SetKeyPoints(points []string) {
	v.SummaryKeyPoints = encodeStrings(points)
}

// HasTranscript reports whether the video carries a non-empty transcript.
func (v *Video) HasTranscript() bool {
	return v.Transcript != nil && *v.Transcript != ""
}

// Category represents a user-defined category. Categories form a forest via
// ParentID; the store does not enforce acyclicity.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Color     *string   `json:"color,omitempty"`
	Icon      *string   `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// VideoCount is derived on read, never stored.
	VideoCount int64 `gorm:"-" json:"video_count"`
}

// IndexMeta is the indexing bookkeeping stored on a GraphEntry.
type IndexMeta struct {
	ChunkCount int       `json:"chunk_count"`
	Indexed    bool      `json:"indexed"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// RelMeta is the relationship metadata stored on a GraphEntry. Topics is a
// placeholder list, currently always empty.
type RelMeta struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Topics []string `json:"topics"`
}

// GraphEntry is the per-video indexing record, one-to-one with Video. It is
// written only by the indexing step and removed with its video.
type GraphEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	VideoID   uint           `gorm:"uniqueIndex;not null" json:"video_id"`
	IndexRef  string         `json:"index_ref"`
	IndexMeta datatypes.JSON `gorm:"type:json" json:"index_meta"`
	RelMeta   datatypes.JSON `gorm:"type:json" json:"rel_meta"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DecodeIndexMeta decodes the serialized index metadata.
func (g *GraphEntry) DecodeIndexMeta() (IndexMeta, error) {
	var m IndexMeta
	if len(g.IndexMeta) == 0 {
		return m, nil
	}
	err := json.Unmarshal(g.IndexMeta, &m)
	return m, err
}

// SetIndexMeta serializes index metadata into the JSON column.
func (g *GraphEntry) SetIndexMeta(m IndexMeta) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	g.IndexMeta = raw
	return nil
}

// SetRelMeta serializes relationship metadata into the JSON column.
func (g *GraphEntry) SetRelMeta(m RelMeta) error {
	if m.Topics == nil {
		m.Topics = []string{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	g.RelMeta = raw
	return nil
}

// MessageSource points a chat message back at a video it drew from.
type MessageSource struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChatMessage is one message in a chat session. Role is "user" or "assistant".
type ChatMessage struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Sources   []MessageSource `json:"sources,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ChatSession holds an ordered message history scoped to a set of videos.
// Sessions are append-only and never expire.
type ChatSession struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	VideoIDs       datatypes.JSON `gorm:"type:json" json:"video_ids"`
	Messages       datatypes.JSON `gorm:"type:json" json:"messages"`
	ContextSummary *string        `gorm:"type:text" json:"context_summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// VideoIDList decodes the participating video IDs.
func (s *ChatSession) VideoIDList() []uint {
	var ids []uint
	if len(s.VideoIDs) == 0 {
		return []uint{}
	}
	if err := json.Unmarshal(s.VideoIDs, &ids); err != nil || ids == nil {
		return []uint{}
	}
	return ids
}

// SetVideoIDs serializes the participating video IDs.
func (s *ChatSession) SetVideoIDs(ids []uint) {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	s.VideoIDs = raw
}

// MessageList decodes the message history.
func (s *ChatSession) MessageList() []ChatMessage {
	var msgs []ChatMessage
	if len(s.Messages) == 0 {
		return []ChatMessage{}
	}
	if err := json.Unmarshal(s.Messages, &msgs); err != nil || msgs == nil {
		return []ChatMessage{}
	}
	return msgs
}

// AppendMessage adds a message to the serialized history.
func (s *ChatSession) AppendMessage(msg ChatMessage) {
	msgs := append(s.MessageList(), msg)
	raw, _ := json.Marshal(msgs)
	s.Messages = raw
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStrings(in []string) datatypes.JSON {
	if in == nil {
		in = []string{}
	}
	raw, _ := json.Marshal(in)
	return raw
}
