package dto

import (
	"encoding/json"

	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeUserSettings parses the singleton settings record. Every boolean
// toggle defaults to true and every counter to zero when absent, so a partial
// server payload never fails to decode. createdAt/updatedAt are non-critical
// audit fields and fall back to the current time instead of failing.
func DecodeUserSettings(data []byte) (*models.UserSettings, error) {
	o, err := parseObject("UserSettings", data)
	if err != nil {
		return nil, err
	}

	s := &models.UserSettings{}
	if s.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if s.UserID, err = o.reqString("userId"); err != nil {
		return nil, err
	}

	if s.PrivacyMode, err = o.boolOr("privacyMode", true); err != nil {
		return nil, err
	}
	if s.ContextMemoryEnabled, err = o.boolOr("contextMemoryEnabled", true); err != nil {
		return nil, err
	}
	if s.PersistentMemoryEnabled, err = o.boolOr("persistentMemoryEnabled", true); err != nil {
		return nil, err
	}
	if s.YoutubeTranscriptsEnabled, err = o.boolOr("youtubeTranscriptsEnabled", true); err != nil {
		return nil, err
	}
	if s.WebScrapingEnabled, err = o.boolOr("webScrapingEnabled", true); err != nil {
		return nil, err
	}
	if s.MCPEnabled, err = o.boolOr("mcpEnabled", true); err != nil {
		return nil, err
	}
	if s.FollowUpQuestionsEnabled, err = o.boolOr("followUpQuestionsEnabled", true); err != nil {
		return nil, err
	}

	if s.FreeMessagesUsed, err = o.intOr("freeMessagesUsed", 0); err != nil {
		return nil, err
	}
	if s.DailyMessagesUsed, err = o.intOr("dailyMessagesUsed", 0); err != nil {
		return nil, err
	}

	// kept as an opaque string on purpose
	if s.LastMessageDate, err = o.optString("lastMessageDate"); err != nil {
		return nil, err
	}
	if s.KarakeepURL, err = o.optString("karakeepUrl"); err != nil {
		return nil, err
	}
	if s.KarakeepAPIKey, err = o.optString("karakeepApiKey"); err != nil {
		return nil, err
	}
	if s.Theme, err = o.optString("theme"); err != nil {
		return nil, err
	}
	if s.TitleModelID, err = o.optString("titleModelId"); err != nil {
		return nil, err
	}
	if s.FollowUpModelID, err = o.optString("followUpModelId"); err != nil {
		return nil, err
	}

	if s.CreatedAt, err = o.timeOrNow("createdAt"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = o.timeOrNow("updatedAt"); err != nil {
		return nil, err
	}
	return s, nil
}

type userSettingsWire struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	PrivacyMode               bool `json:"privacyMode"`
	ContextMemoryEnabled      bool `json:"contextMemoryEnabled"`
	PersistentMemoryEnabled   bool `json:"persistentMemoryEnabled"`
	YoutubeTranscriptsEnabled bool `json:"youtubeTranscriptsEnabled"`
	WebScrapingEnabled        bool `json:"webScrapingEnabled"`
	MCPEnabled                bool `json:"mcpEnabled"`
	FollowUpQuestionsEnabled  bool `json:"followUpQuestionsEnabled"`

	FreeMessagesUsed  int `json:"freeMessagesUsed"`
	DailyMessagesUsed int `json:"dailyMessagesUsed"`

	LastMessageDate *string `json:"lastMessageDate,omitempty"`
	KarakeepURL     *string `json:"karakeepUrl,omitempty"`
	KarakeepAPIKey  *string `json:"karakeepApiKey,omitempty"`
	Theme           *string `json:"theme,omitempty"`
	TitleModelID    *string `json:"titleModelId,omitempty"`
	FollowUpModelID *string `json:"followUpModelId,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// EncodeUserSettings renders s in the wire shape.
func EncodeUserSettings(s *models.UserSettings) ([]byte, error) {
	return json.Marshal(userSettingsWire{
		ID:                        s.ID,
		UserID:                    s.UserID,
		PrivacyMode:               s.PrivacyMode,
		ContextMemoryEnabled:      s.ContextMemoryEnabled,
		PersistentMemoryEnabled:   s.PersistentMemoryEnabled,
		YoutubeTranscriptsEnabled: s.YoutubeTranscriptsEnabled,
		WebScrapingEnabled:        s.WebScrapingEnabled,
		MCPEnabled:                s.MCPEnabled,
		FollowUpQuestionsEnabled:  s.FollowUpQuestionsEnabled,
		FreeMessagesUsed:          s.FreeMessagesUsed,
		DailyMessagesUsed:         s.DailyMessagesUsed,
		LastMessageDate:           s.LastMessageDate,
		KarakeepURL:               s.KarakeepURL,
		KarakeepAPIKey:            s.KarakeepAPIKey,
		Theme:                     s.Theme,
		TitleModelID:              s.TitleModelID,
		FollowUpModelID:           s.FollowUpModelID,
		CreatedAt:                 FormatTimestamp(s.CreatedAt),
		UpdatedAt:                 FormatTimestamp(s.UpdatedAt),
	})
}
