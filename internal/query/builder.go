// Package query builds provider search queries from a SearchConfig.
// Everything here is pure: identical configs always produce identical
// queries.
package query

import (
	"fmt"
	"strings"

	"dailyjobs/search-service/internal/model"
)

// DefaultJobSites is the process-wide site list substituted when a config
// does not restrict job sites: the major applicant tracking systems.
var DefaultJobSites = []string{
	"myworkdayjobs.com",
	"greenhouse.io",
	"icims.com",
	"taleo.net",
	"lever.co",
	"smartrecruiters.com",
	"jobvite.com",
	"workforcenow.adp.com",
	"successfactors.com",
	"brassring.com",
	"jazzhr.com",
	"breezy.hr",
	"jobdiva.com",
	"bullhorn.com",
	"bamboohr.com",
}

// DateBucket is the coarse recency restriction derived from a config's
// maximum job age.
type DateBucket string

const (
	BucketNone  DateBucket = ""
	BucketHour  DateBucket = "hour"
	BucketDay   DateBucket = "day"
	BucketWeek  DateBucket = "week"
	BucketMonth DateBucket = "month"
)

// Restrict returns the provider's dateRestrict parameter for the bucket,
// empty when unrestricted.
func (b DateBucket) Restrict() string {
	switch b {
	case BucketHour:
		return "h"
	case BucketDay:
		return "d"
	case BucketWeek:
		return "w"
	case BucketMonth:
		return "m"
	default:
		return ""
	}
}

// Query is the deterministic output of Build.
type Query struct {
	Text     string
	Bucket   DateBucket
	Keywords []string // the config's resolved keyword sequence
}

// Keyword returns the keyword postings are attributed to when the provider
// cannot say which keyword matched: the first of the config's sequence.
func (q Query) Keyword() string {
	if len(q.Keywords) > 0 {
		return q.Keywords[0]
	}
	return ""
}

// Build composes the provider query for cfg:
// (site:a OR site:b ...) (keyword clause) ("location filter").
func Build(cfg model.SearchConfig) Query {
	sites := cfg.JobSites
	if len(sites) == 0 {
		sites = DefaultJobSites
	}
	siteTerms := make([]string, len(sites))
	for i, s := range sites {
		siteTerms[i] = "site:" + s
	}
	siteClause := strings.Join(siteTerms, " OR ")

	var keywordClause string
	switch cfg.SearchLogic {
	case model.LogicCustom:
		if cfg.CustomLogic != "" {
			keywordClause = cfg.CustomLogic
		} else {
			keywordClause = strings.Join(cfg.Keywords, " OR ")
		}
	case model.LogicOR:
		keywordClause = strings.Join(cfg.Keywords, " OR ")
	default:
		// AND: all keywords as one quoted phrase.
		keywordClause = `"` + strings.Join(cfg.Keywords, " ") + `"`
	}

	return Query{
		Text:     fmt.Sprintf(`(%s) (%s) ("%s")`, siteClause, keywordClause, cfg.LocationFilter),
		Bucket:   bucketFor(cfg.MaxJobAge),
		Keywords: cfg.Keywords,
	}
}

func bucketFor(maxAgeHours int) DateBucket {
	switch {
	case maxAgeHours <= 0:
		return BucketNone
	case maxAgeHours <= 1:
		return BucketHour
	case maxAgeHours <= 24:
		return BucketDay
	case maxAgeHours <= 168:
		return BucketWeek
	case maxAgeHours <= 720:
		return BucketMonth
	default:
		return BucketNone
	}
}
