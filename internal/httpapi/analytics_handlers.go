package httpapi

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) handleContentView(c echo.Context) error {
	dataStore := s.contentDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to record view")
	}

	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	item, handled := s.resolveOwnedContent(c, dataStore, principal.UserID)
	if item == nil {
		return handled
	}

	if err := dataStore.RecordContentView(c.Request().Context(), item.ContentID); err != nil {
		s.logger.Error().Err(err).Int64("content_id", item.ContentID).Msg("record view failed")
		return internalError(c, "Failed to record view")
	}

	return success(c, map[string]any{
		"contentUuid": item.ContentUUID,
		"recorded":    true,
	})
}

func (s *Server) handleContentEngagement(c echo.Context) error {
	dataStore := s.contentDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to record engagement")
	}

	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	item, handled := s.resolveOwnedContent(c, dataStore, principal.UserID)
	if item == nil {
		return handled
	}

	if err := dataStore.RecordContentEngagement(c.Request().Context(), item.ContentID); err != nil {
		s.logger.Error().Err(err).Int64("content_id", item.ContentID).Msg("record engagement failed")
		return internalError(c, "Failed to record engagement")
	}

	return success(c, map[string]any{
		"contentUuid": item.ContentUUID,
		"recorded":    true,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	dataStore := s.contentDataStore()
	if dataStore == nil {
		return internalError(c, "Failed to load stats")
	}

	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	stats, err := dataStore.QueryUserStats(c.Request().Context(), principal.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", principal.UserID).Msg("query stats failed")
		return internalError(c, "Failed to load stats")
	}

	return success(c, stats)
}
