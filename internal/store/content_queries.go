package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// InsertContentParams carries one generation result into craft.content_items.
type InsertContentParams struct {
	UserID       int64
	Platform     string
	Language     string
	ContentType  string
	Body         string
	Hashtags     []string
	Confidence   float64
	Fallback     bool
	ProviderName string
	ModelName    string
}

func (p *Pool) InsertContent(ctx context.Context, params InsertContentParams) (*ContentItem, error) {
	hashtags := params.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	hashtagsJSON, err := json.Marshal(hashtags)
	if err != nil {
		return nil, fmt.Errorf("marshal hashtags: %w", err)
	}

	var modelName any
	if params.ModelName != "" {
		modelName = params.ModelName
	}

	row := p.QueryRow(ctx, `
		INSERT INTO craft.content_items
			(user_id, platform, language, content_type, body, hashtags, confidence, fallback, provider_name, model_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING content_id, content_uuid, user_id, platform, language, content_type,
		          body, hashtags, confidence, fallback, provider_name, model_name, created_at
	`,
		params.UserID, params.Platform, params.Language, params.ContentType, params.Body,
		string(hashtagsJSON), params.Confidence, params.Fallback, params.ProviderName, modelName,
	)

	item, err := scanContentItem(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("insert content item: %w", err)
	}
	return item, nil
}

func (p *Pool) GetContentByUUID(ctx context.Context, contentUUID string) (*ContentItem, error) {
	row := p.QueryRow(ctx, `
		SELECT content_id, content_uuid, user_id, platform, language, content_type,
		       body, hashtags, confidence, fallback, provider_name, model_name, created_at
		FROM craft.content_items
		WHERE content_uuid = ?
	`, contentUUID)

	item, err := scanContentItem(row.Scan)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("query content item by uuid: %w", err)
	}
	return item, nil
}

func (p *Pool) ListContentByUser(ctx context.Context, userID int64, limit, offset int) ([]ContentItem, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := p.Query(ctx, `
		SELECT content_id, content_uuid, user_id, platform, language, content_type,
		       body, hashtags, confidence, fallback, provider_name, model_name, created_at
		FROM craft.content_items
		WHERE user_id = ?
		ORDER BY created_at DESC, content_id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query content items: %w", err)
	}
	defer rows.Close()

	items := make([]ContentItem, 0, limit)
	for rows.Next() {
		item, err := scanContentItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}
	return items, nil
}

func (p *Pool) CountContentByUser(ctx context.Context, userID int64) (int64, error) {
	row := p.QueryRow(ctx, `
		SELECT count(*)
		FROM craft.content_items
		WHERE user_id = ?
	`, userID)

	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count content items: %w", err)
	}
	return total, nil
}

func scanContentItem(scan func(dest ...any) error) (*ContentItem, error) {
	var (
		item      ContentItem
		hashtags  sql.NullString
		modelName sql.NullString
	)
	err := scan(
		&item.ContentID, &item.ContentUUID, &item.UserID, &item.Platform, &item.Language, &item.ContentType,
		&item.Body, &hashtags, &item.Confidence, &item.Fallback, &item.ProviderName, &modelName, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if hashtags.Valid && hashtags.String != "" {
		item.Hashtags = json.RawMessage(hashtags.String)
	} else {
		item.Hashtags = json.RawMessage(`[]`)
	}
	if modelName.Valid {
		name := modelName.String
		item.ModelName = &name
	}
	return &item, nil
}

// HashtagList decodes the stored jsonb hashtag array.
func (i *ContentItem) HashtagList() []string {
	if i == nil || len(i.Hashtags) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(i.Hashtags, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
