package scoring

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PlatformMetrics holds the author's structured reach numbers. Every field
// is independently optional; a nil field means "not supplied", which is
// distinct from an explicit zero.
type PlatformMetrics struct {
	EmailList           *int64 `json:"email_list,omitempty"`
	InstagramFollowers  *int64 `json:"instagram_followers,omitempty"`
	TikTokFollowers     *int64 `json:"tiktok_followers,omitempty"`
	LinkedInFollowers   *int64 `json:"linkedin_followers,omitempty"`
	YouTubeSubscribers  *int64 `json:"youtube_subscribers,omitempty"`
	PodcastAudience     *int64 `json:"podcast_audience,omitempty"`
	SpeakingEngagements *int64 `json:"speaking_engagements,omitempty"`
	AvgSpeakingAudience *int64 `json:"avg_speaking_audience,omitempty"`
	BulkOrders          *int64 `json:"bulk_orders,omitempty"`
}

// ParsePlatformMetrics decodes a platform-metrics JSON object submitted by
// the author. Values may arrive as numbers or numeric strings; anything
// invalid, non-numeric or negative is treated as absent rather than zero.
// A nil, empty or malformed payload yields empty metrics.
func ParsePlatformMetrics(raw []byte) PlatformMetrics {
	var m PlatformMetrics

	if len(raw) == 0 {
		return m
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return m
	}

	m.EmailList = parseCount(fields["email_list"])
	m.InstagramFollowers = parseCount(fields["instagram_followers"])
	m.TikTokFollowers = parseCount(fields["tiktok_followers"])
	m.LinkedInFollowers = parseCount(fields["linkedin_followers"])
	m.YouTubeSubscribers = parseCount(fields["youtube_subscribers"])
	m.PodcastAudience = parseCount(fields["podcast_audience"])
	m.SpeakingEngagements = parseCount(fields["speaking_engagements"])
	m.AvgSpeakingAudience = parseCount(fields["avg_speaking_audience"])
	m.BulkOrders = parseCount(fields["bulk_orders"])

	return m
}

func parseCount(raw json.RawMessage) *int64 {
	if len(raw) == 0 {
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err != nil {
		var asString string
		if err := json.Unmarshal(raw, &asString); err != nil {
			return nil
		}
		asString = strings.ReplaceAll(strings.TrimSpace(asString), ",", "")
		parsed, err := strconv.ParseFloat(asString, 64)
		if err != nil {
			return nil
		}
		asNumber = parsed
	}

	if asNumber < 0 {
		return nil
	}

	value := int64(asNumber)
	return &value
}

// SpeakingPopulated reports whether the speaking pair counts: both the
// engagement count and the average audience must be present.
func (m PlatformMetrics) SpeakingPopulated() bool {
	return m.SpeakingEngagements != nil && m.AvgSpeakingAudience != nil
}

// PopulatedSlots counts how many metric slots the author filled in. The
// speaking pair is a single slot and only counts when both halves are set.
func (m PlatformMetrics) PopulatedSlots() int {
	slots := 0
	for _, field := range []*int64{
		m.EmailList,
		m.InstagramFollowers,
		m.TikTokFollowers,
		m.LinkedInFollowers,
		m.YouTubeSubscribers,
		m.PodcastAudience,
		m.BulkOrders,
	} {
		if field != nil {
			slots++
		}
	}
	if m.SpeakingPopulated() {
		slots++
	}
	return slots
}

// Empty reports whether no metric slot was supplied at all.
func (m PlatformMetrics) Empty() bool {
	return m.PopulatedSlots() == 0
}
