package lifecycle

import model "deal-rater/internal/models"

// QuotaPolicy decides how many ratings unlock publication and when a post is settled.
type QuotaPolicy interface {
	// RatingsToPublish is the quota assigned to author when they create a post
	RatingsToPublish(author model.User) int
	// RatedThreshold is the rating count at which a live post becomes rated
	RatedThreshold() int
}

// FixedPolicy uses the same quota and threshold for everyone
type FixedPolicy struct {
	Quota     int
	Threshold int
}

// DefaultPolicy is rate two to publish, five ratings to settle
var DefaultPolicy = FixedPolicy{Quota: 2, Threshold: 5}

func (p FixedPolicy) RatingsToPublish(model.User) int { return p.Quota }

func (p FixedPolicy) RatedThreshold() int { return p.Threshold }
