package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"postcraft.app/postcraft/internal/store"
)

type contentListItem struct {
	ContentUUID  string    `json:"contentUuid"`
	Platform     string    `json:"platform"`
	Language     string    `json:"language"`
	ContentType  string    `json:"contentType"`
	Body         string    `json:"body"`
	Hashtags     []string  `json:"hashtags"`
	Confidence   float64   `json:"confidence"`
	Fallback     bool      `json:"fallback"`
	ProviderName string    `json:"provider,omitempty"`
	ModelName    string    `json:"model,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Server) handleListContent(c echo.Context) error {
	dataStore := s.contentDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to load content")
	}

	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	page, err := parsePositiveInt(c.QueryParam("page"), 1, 1, 1_000_000)
	if err != nil {
		return failValidation(c, map[string]string{"page": err.Error()})
	}
	pageSize, err := parsePositiveInt(c.QueryParam("page_size"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		return failValidation(c, map[string]string{"page_size": err.Error()})
	}

	offset := (page - 1) * pageSize
	rows, err := dataStore.ListContentByUser(c.Request().Context(), principal.UserID, pageSize, offset)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("list content failed")
		return internalError(c, "Failed to load content")
	}

	total, err := dataStore.CountContentByUser(c.Request().Context(), principal.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("count content failed")
		return internalError(c, "Failed to load content")
	}

	items := make([]contentListItem, 0, len(rows))
	for i := range rows {
		items = append(items, buildContentListItem(&rows[i]))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return success(c, map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":        page,
			"page_size":   pageSize,
			"total_items": total,
			"total_pages": totalPages,
		},
	})
}

func buildContentListItem(row *store.ContentItem) contentListItem {
	if row == nil {
		return contentListItem{}
	}

	item := contentListItem{
		ContentUUID:  row.ContentUUID,
		Platform:     row.Platform,
		Language:     row.Language,
		ContentType:  row.ContentType,
		Body:         row.Body,
		Hashtags:     row.HashtagList(),
		Confidence:   row.Confidence,
		Fallback:     row.Fallback,
		ProviderName: row.ProviderName,
		CreatedAt:    row.CreatedAt.UTC(),
	}
	if row.ModelName != nil {
		item.ModelName = *row.ModelName
	}
	return item
}

// resolveOwnedContent loads a content row by UUID and checks ownership.
func (s *Server) resolveOwnedContent(c echo.Context, dataStore contentStore, userID int64) (*store.ContentItem, error) {
	contentUUID := strings.TrimSpace(c.Param("content_uuid"))
	if contentUUID == "" {
		return nil, failValidation(c, map[string]string{"content_uuid": "is required"})
	}

	item, err := dataStore.GetContentByUUID(c.Request().Context(), contentUUID)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			return nil, failNotFound(c, "Content not found")
		}
		s.logger.Error().Err(err).Str("content_uuid", contentUUID).Msg("load content failed")
		return nil, internalError(c, "Failed to load content")
	}
	if item.UserID != userID {
		return nil, failNotFound(c, "Content not found")
	}
	return item, nil
}
