package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// TonePolicy names the register a platform expects.
type TonePolicy string

const (
	ToneCasual       TonePolicy = "casual"
	ToneProfessional TonePolicy = "professional"
	ToneYouth        TonePolicy = "youth"
	ToneCommunity    TonePolicy = "community"
	TonePersonal     TonePolicy = "personal"
)

// PlatformRule captures per-platform content constraints.
type PlatformRule struct {
	Name             string     `json:"name"`
	MaxContentLength int        `json:"max_content_length"`
	PreserveHashtags bool       `json:"preserve_hashtags"`
	TonePolicy       TonePolicy `json:"tone_policy"`
	IncludeEmojis    bool       `json:"include_emojis"`
	HashtagLimit     int        `json:"hashtag_limit"`
}

var supportedPlatforms = map[string]PlatformRule{
	"twitter": {
		Name:             "twitter",
		MaxContentLength: 280,
		PreserveHashtags: true,
		TonePolicy:       ToneCasual,
		IncludeEmojis:    true,
		HashtagLimit:     3,
	},
	"instagram": {
		Name:             "instagram",
		MaxContentLength: 2200,
		PreserveHashtags: true,
		TonePolicy:       TonePersonal,
		IncludeEmojis:    true,
		HashtagLimit:     10,
	},
	"tiktok": {
		Name:             "tiktok",
		MaxContentLength: 2200,
		PreserveHashtags: true,
		TonePolicy:       ToneYouth,
		IncludeEmojis:    true,
		HashtagLimit:     6,
	},
	"facebook": {
		Name:             "facebook",
		MaxContentLength: 5000,
		PreserveHashtags: false,
		TonePolicy:       ToneCommunity,
		IncludeEmojis:    true,
		HashtagLimit:     3,
	},
	"linkedin": {
		Name:             "linkedin",
		MaxContentLength: 3000,
		PreserveHashtags: true,
		TonePolicy:       ToneProfessional,
		IncludeEmojis:    false,
		HashtagLimit:     5,
	},
	"youtube": {
		Name:             "youtube",
		MaxContentLength: 5000,
		PreserveHashtags: true,
		TonePolicy:       ToneCasual,
		IncludeEmojis:    true,
		HashtagLimit:     8,
	},
	"snapchat": {
		Name:             "snapchat",
		MaxContentLength: 250,
		PreserveHashtags: false,
		TonePolicy:       ToneYouth,
		IncludeEmojis:    true,
		HashtagLimit:     2,
	},
}

// LookupPlatform resolves a platform by name, case-insensitively.
func LookupPlatform(name string) (PlatformRule, error) {
	normalized := normalizePlatformName(name)
	if normalized == "" {
		return PlatformRule{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	rule, ok := supportedPlatforms[normalized]
	if !ok {
		return PlatformRule{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return rule, nil
}

// Platforms returns all supported platform rules sorted by name.
func Platforms() []PlatformRule {
	names := make([]string, 0, len(supportedPlatforms))
	for name := range supportedPlatforms {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]PlatformRule, 0, len(names))
	for _, name := range names {
		items = append(items, supportedPlatforms[name])
	}
	return items
}

func normalizePlatformName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
