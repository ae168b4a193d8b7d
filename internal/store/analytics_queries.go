package store

import (
	"context"
	"errors"
	"fmt"
)

// PlatformStat aggregates saved content per platform for one user.
type PlatformStat struct {
	Platform      string  `json:"platform"`
	ContentCount  int64   `json:"contentCount"`
	TotalViews    int64   `json:"totalViews"`
	AvgConfidence float64 `json:"avgConfidence"`
}

// UserStats summarizes a user's saved content and its view counters.
type UserStats struct {
	TotalContent  int64          `json:"totalContent"`
	TotalViews    int64          `json:"totalViews"`
	FallbackCount int64          `json:"fallbackCount"`
	Platforms     []PlatformStat `json:"platforms"`
}

// RecordContentView bumps the view counter for a content row, creating the
// metrics row on first view.
func (p *Pool) RecordContentView(ctx context.Context, contentID int64) error {
	_, err := p.Exec(ctx, `
		INSERT INTO craft.content_metrics (content_id, views, last_viewed_at, updated_at)
		VALUES (?, 1, now(), now())
		ON CONFLICT (content_id) DO UPDATE
		SET views = craft.content_metrics.views + 1,
		    last_viewed_at = now(),
		    updated_at = now()
	`, contentID)
	if err != nil {
		return fmt.Errorf("record content view: %w", err)
	}
	return nil
}

func (p *Pool) RecordContentEngagement(ctx context.Context, contentID int64) error {
	_, err := p.Exec(ctx, `
		INSERT INTO craft.content_metrics (content_id, engagements, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (content_id) DO UPDATE
		SET engagements = craft.content_metrics.engagements + 1,
		    updated_at = now()
	`, contentID)
	if err != nil {
		return fmt.Errorf("record content engagement: %w", err)
	}
	return nil
}

func (p *Pool) GetContentMetric(ctx context.Context, contentID int64) (*ContentMetric, error) {
	row := p.QueryRow(ctx, `
		SELECT content_id, views, engagements, last_viewed_at, updated_at
		FROM craft.content_metrics
		WHERE content_id = ?
	`, contentID)

	var metric ContentMetric
	err := row.Scan(&metric.ContentID, &metric.Views, &metric.Engagements, &metric.LastViewedAt, &metric.UpdatedAt)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("query content metric: %w", err)
	}
	return &metric, nil
}

func (p *Pool) QueryUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	stats := &UserStats{
		Platforms: []PlatformStat{},
	}

	row := p.QueryRow(ctx, `
		SELECT count(*),
		       coalesce(sum(m.views), 0),
		       count(*) FILTER (WHERE c.fallback)
		FROM craft.content_items c
		LEFT JOIN craft.content_metrics m ON m.content_id = c.content_id
		WHERE c.user_id = ?
	`, userID)
	if err := row.Scan(&stats.TotalContent, &stats.TotalViews, &stats.FallbackCount); err != nil {
		return nil, fmt.Errorf("query user totals: %w", err)
	}

	rows, err := p.Query(ctx, `
		SELECT c.platform,
		       count(*),
		       coalesce(sum(m.views), 0),
		       coalesce(avg(c.confidence), 0)
		FROM craft.content_items c
		LEFT JOIN craft.content_metrics m ON m.content_id = c.content_id
		WHERE c.user_id = ?
		GROUP BY c.platform
		ORDER BY count(*) DESC, c.platform ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query per-platform stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stat PlatformStat
		if err := rows.Scan(&stat.Platform, &stat.ContentCount, &stat.TotalViews, &stat.AvgConfidence); err != nil {
			return nil, fmt.Errorf("scan platform stat: %w", err)
		}
		stats.Platforms = append(stats.Platforms, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate platform stats: %w", err)
	}

	return stats, nil
}
