package httpapi

import (
	"github.com/labstack/echo/v4"

	"postcraft.app/postcraft/internal/catalog"
)

type languageItem struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
	NativeName  string `json:"nativeName"`
	Region      string `json:"region,omitempty"`
}

type platformItem struct {
	Name             string `json:"name"`
	MaxContentLength int    `json:"maxContentLength"`
	PreserveHashtags bool   `json:"preserveHashtags"`
	TonePolicy       string `json:"tonePolicy"`
	IncludeEmojis    bool   `json:"includeEmojis"`
	HashtagLimit     int    `json:"hashtagLimit"`
}

func (s *Server) handleLanguages(c echo.Context) error {
	languages := catalog.Languages()
	items := make([]languageItem, 0, len(languages))
	for _, lang := range languages {
		items = append(items, languageItem{
			Code:        lang.Code,
			DisplayName: lang.DisplayName,
			NativeName:  lang.NativeName,
			Region:      lang.Region,
		})
	}
	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) handlePlatforms(c echo.Context) error {
	platforms := catalog.Platforms()
	items := make([]platformItem, 0, len(platforms))
	for _, platform := range platforms {
		items = append(items, platformItem{
			Name:             platform.Name,
			MaxContentLength: platform.MaxContentLength,
			PreserveHashtags: platform.PreserveHashtags,
			TonePolicy:       string(platform.TonePolicy),
			IncludeEmojis:    platform.IncludeEmojis,
			HashtagLimit:     platform.HashtagLimit,
		})
	}
	return success(c, map[string]any{
		"items": items,
	})
}
