package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"postcraft.app/postcraft/internal/catalog"
	"postcraft.app/postcraft/internal/generation"
	"postcraft.app/postcraft/internal/store"
)

type generateRequest struct {
	SourceContent   string   `json:"sourceContent" validate:"required_without=SourceURL,max=20000"`
	SourceURL       string   `json:"sourceUrl" validate:"omitempty,url"`
	SourceLanguage  string   `json:"sourceLanguage"`
	TargetLanguage  string   `json:"targetLanguage"`
	TargetLanguages []string `json:"targetLanguages" validate:"max=20"`
	Platform        string   `json:"platform" validate:"required"`
	ContentType     string   `json:"contentType"`
	Style           string   `json:"style"`
	Save            bool     `json:"save"`
}

type savedContentRef struct {
	Language    string `json:"language"`
	ContentUUID string `json:"contentUuid"`
}

type contentStore interface {
	InsertContent(ctx context.Context, params store.InsertContentParams) (*store.ContentItem, error)
	ListContentByUser(ctx context.Context, userID int64, limit, offset int) ([]store.ContentItem, error)
	CountContentByUser(ctx context.Context, userID int64) (int64, error)
	GetContentByUUID(ctx context.Context, contentUUID string) (*store.ContentItem, error)
	RecordContentView(ctx context.Context, contentID int64) error
	RecordContentEngagement(ctx context.Context, contentID int64) error
	QueryUserStats(ctx context.Context, userID int64) (*store.UserStats, error)
}

func (s *Server) contentDataStore() contentStore {
	if s == nil {
		return nil
	}
	if s.contentStore != nil {
		return s.contentStore
	}
	if s.pool == nil {
		return nil
	}
	return s.pool
}

func (s *Server) handleGenerate(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return unauthorizedResponse(c)
	}

	var req generateRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}
	if fieldErrors := s.validateStruct(req); len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	sourceContent := strings.TrimSpace(req.SourceContent)
	if sourceContent == "" && strings.TrimSpace(req.SourceURL) != "" {
		fetched, err := s.fetchSourceContent(c.Request().Context(), req.SourceURL)
		if err != nil {
			s.logger.Warn().Err(err).Str("source_url", req.SourceURL).Msg("source import failed")
			return failValidation(c, map[string]string{"sourceUrl": "could not be imported"})
		}
		sourceContent = fetched
	}

	if len(req.TargetLanguages) > 0 {
		return s.runBatchGeneration(c, principal, req, sourceContent)
	}

	if strings.TrimSpace(req.TargetLanguage) == "" {
		return failValidation(c, map[string]string{"targetLanguage": "is required"})
	}

	result, err := s.generator.Generate(c.Request().Context(), generation.GenerateParams{
		SourceContent:  sourceContent,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Platform:       req.Platform,
		ContentType:    req.ContentType,
		Style:          req.Style,
	})
	if err != nil {
		if errors.Is(err, generation.ErrInvalidRequest) {
			return failValidation(c, map[string]string{"request": invalidRequestMessage(err)})
		}
		s.logger.Error().Err(err).Msg("generate failed")
		return internalError(c, "Failed to generate content")
	}

	var saved []savedContentRef
	if req.Save {
		contentType, ctErr := s.generator.ResolveContentType(req.ContentType)
		if ctErr != nil {
			contentType = generation.ContentTypePost
		}
		// Persist canonical catalog values so single and batch rows match.
		languageCode := strings.ToLower(strings.TrimSpace(req.TargetLanguage))
		if target, lookupErr := catalog.LookupLanguage(req.TargetLanguage); lookupErr == nil {
			languageCode = target.Code
		}
		platformName := req.Platform
		if platform, lookupErr := catalog.LookupPlatform(req.Platform); lookupErr == nil {
			platformName = platform.Name
		}
		saved = s.saveResults(c, principal.UserID, platformName, contentType, map[string]generation.Result{
			languageCode: result,
		})
	}

	response := map[string]any{
		"result": result,
	}
	if saved != nil {
		response["saved"] = saved
	}
	return success(c, response)
}

func (s *Server) runBatchGeneration(c echo.Context, principal authPrincipal, req generateRequest, sourceContent string) error {
	job, err := s.generator.RunBatch(c.Request().Context(), generation.BatchParams{
		SourceContent:   sourceContent,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguages: req.TargetLanguages,
		Platform:        req.Platform,
		ContentType:     req.ContentType,
		Style:           req.Style,
	})
	if err != nil {
		if errors.Is(err, generation.ErrInvalidRequest) {
			return failValidation(c, map[string]string{"request": invalidRequestMessage(err)})
		}
		s.logger.Error().Err(err).Msg("batch generate failed")
		return internalError(c, "Failed to generate content")
	}

	var saved []savedContentRef
	if req.Save {
		saved = s.saveResults(c, principal.UserID, job.Platform, job.ContentType, job.Results)
	}

	response := map[string]any{
		"sourceLanguage": job.SourceLanguage,
		"platform":       job.Platform,
		"contentType":    job.ContentType,
		"targets":        job.Targets,
		"results":        job.Results,
	}
	if saved != nil {
		response["saved"] = saved
	}
	return success(c, response)
}

// saveResults persists each generated result. Persistence failures do not
// fail the generation response; the save list simply omits the row.
func (s *Server) saveResults(c echo.Context, userID int64, platform string, contentType generation.ContentType, results map[string]generation.Result) []savedContentRef {
	dataStore := s.contentDataStore()
	if dataStore == nil {
		s.logger.Error().Msg("content store unavailable, results not saved")
		return []savedContentRef{}
	}

	saved := make([]savedContentRef, 0, len(results))
	for lang, result := range results {
		item, err := dataStore.InsertContent(c.Request().Context(), store.InsertContentParams{
			UserID:       userID,
			Platform:     platform,
			Language:     lang,
			ContentType:  string(contentType),
			Body:         result.Content,
			Hashtags:     result.Hashtags,
			Confidence:   result.Confidence,
			Fallback:     result.Fallback,
			ProviderName: result.Provider,
			ModelName:    result.Model,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("language", lang).Msg("save content failed")
			continue
		}
		saved = append(saved, savedContentRef{
			Language:    lang,
			ContentUUID: item.ContentUUID,
		})
	}
	return saved
}

func (s *Server) fetchSourceContent(ctx context.Context, sourceURL string) (string, error) {
	if s.fetchSource == nil {
		return "", errors.New("source import is not configured")
	}
	return s.fetchSource(ctx, sourceURL)
}

func invalidRequestMessage(err error) string {
	message := strings.TrimSpace(strings.TrimPrefix(err.Error(), generation.ErrInvalidRequest.Error()+":"))
	if message == "" {
		return "is invalid"
	}
	return message
}
