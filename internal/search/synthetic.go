package search

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dailyjobs/search-service/internal/model"
)

const (
	orVolumeCap      = 8
	defaultVolume    = 3
	fallbackAgeHours = 168 // window used when the config has no age limit
)

// andVolume keys posting volume under AND logic by keyword substring.
// Ordered so lookup is deterministic; first match wins.
var andVolume = []struct {
	substr string
	count  int
}{
	{"python", 6}, {"developer", 5}, {"engineer", 5}, {"analyst", 4}, {"manager", 4},
	{"business", 3}, {"data", 4}, {"software", 5}, {"web", 4}, {"full", 3},
}

var titleSuffixes = []string{"", " - Remote", " - Full Time", " - Contract", " - Part Time"}

// template parameterizes one synthetic posting by keyword. Company is part
// of the template pool's shape but postings do not carry it as a field.
type template struct {
	title   string
	company string
	site    string
	snippet string
	keyword string
}

// Synthetic generates bounded, pseudo-random placeholder postings when a
// live search cannot run. The template pool and volume rule are fixed; only
// the picks, title suffixes and timestamps are randomized.
type Synthetic struct {
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic constructs a generator seeded from the clock.
func NewSynthetic() *Synthetic {
	return NewSyntheticWith(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewSyntheticWith constructs a generator with an injected random source
// and clock.
func NewSyntheticWith(rng *rand.Rand, now func() time.Time) *Synthetic {
	return &Synthetic{rng: rng, now: now}
}

// Generate produces placeholder postings for cfg. Volume depends on the
// search logic: OR yields up to 8 postings across per-keyword templates,
// AND yields a count keyed by the first keyword. Every timestamp lies
// within [now-maxJobAge, now], with a 168h window when maxJobAge is 0.
func (s *Synthetic) Generate(cfg model.SearchConfig) []model.JobPosting {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = []string{"Business"}
	}

	var pool []template
	var volume int
	if cfg.SearchLogic == model.LogicOR {
		pool = orTemplates(keywords)
		volume = orVolumeCap
	} else {
		pool = andTemplates(keywords[0])
		volume = andVolumeFor(keywords[0])
	}
	if volume > len(pool) {
		volume = len(pool)
	}

	now := s.now()
	windowHours := float64(cfg.MaxJobAge)
	if cfg.MaxJobAge <= 0 {
		windowHours = fallbackAgeHours
	}

	picks := s.rng.Perm(len(pool))[:volume]
	postings := make([]model.JobPosting, 0, volume)
	for i, idx := range picks {
		tpl := pool[idx]
		suffix := titleSuffixes[s.rng.Intn(len(titleSuffixes))]
		age := time.Duration(s.rng.Float64() * windowHours * float64(time.Hour))
		postings = append(postings, model.JobPosting{
			Title:   tpl.title + suffix,
			Link:    fmt.Sprintf("https://example.com/job%d", i+1),
			Snippet: tpl.snippet,
			Site:    tpl.site,
			Keyword: tpl.keyword,
			FoundAt: now.Add(-age),
		})
	}
	return postings
}

// andVolumeFor resolves posting volume for AND logic from the keyword
// substring table.
func andVolumeFor(keyword string) int {
	kw := strings.ToLower(keyword)
	for _, entry := range andVolume {
		if strings.Contains(kw, entry.substr) {
			return entry.count
		}
	}
	return defaultVolume
}

// orTemplates builds four keyword-tagged templates per keyword.
func orTemplates(keywords []string) []template {
	pool := make([]template, 0, 4*len(keywords))
	for i, kw := range keywords {
		n := i + 1
		pool = append(pool,
			template{
				title:   fmt.Sprintf("Senior %s Manager", kw),
				company: fmt.Sprintf("TechCorp %d Inc.", n),
				site:    "greenhouse.io",
				snippet: fmt.Sprintf("We are looking for a Senior %s Manager to join our remote team. Experience with %s required.", kw, kw),
				keyword: kw,
			},
			template{
				title:   fmt.Sprintf("%s Developer", kw),
				company: fmt.Sprintf("CodeCraft %d Solutions", n),
				site:    "smartrecruiters.com",
				snippet: fmt.Sprintf("We need a %s Developer to join our growing team. Remote-first company with great benefits.", kw),
				keyword: kw,
			},
			template{
				title:   fmt.Sprintf("%s Engineer", kw),
				company: fmt.Sprintf("BuildTech %d", n),
				site:    "jobvite.com",
				snippet: fmt.Sprintf("Looking for a %s Engineer with strong technical skills. Remote work available.", kw),
				keyword: kw,
			},
			template{
				title:   fmt.Sprintf("%s Analyst", kw),
				company: fmt.Sprintf("DataFlow %d Systems", n),
				site:    "lever.co",
				snippet: fmt.Sprintf("Join our team as a %s Analyst. Remote work available. Strong analytical skills required.", kw),
				keyword: kw,
			},
		)
	}
	return pool
}

// andTemplates builds the seven-role pool for a single keyword.
func andTemplates(kw string) []template {
	return []template{
		{
			title:   fmt.Sprintf("Senior %s Manager", kw),
			company: "TechCorp Inc.",
			site:    "greenhouse.io",
			snippet: fmt.Sprintf("We are looking for a Senior %s Manager to join our remote team. Experience with %s required.", kw, kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("%s Analyst", kw),
			company: "DataFlow Systems",
			site:    "lever.co",
			snippet: fmt.Sprintf("Join our team as a %s Analyst. Remote work available. Strong analytical skills required.", kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("Lead %s Specialist", kw),
			company: "InnovateLabs",
			site:    "workday.com",
			snippet: fmt.Sprintf("Lead %s Specialist position. Remote work. 5+ years experience in %s field.", kw, kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("%s Developer", kw),
			company: "CodeCraft Solutions",
			site:    "smartrecruiters.com",
			snippet: fmt.Sprintf("We need a %s Developer to join our growing team. Remote-first company with great benefits.", kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("%s Consultant", kw),
			company: "Strategic Partners",
			site:    "icims.com",
			snippet: fmt.Sprintf("Independent %s Consultant needed for exciting projects. Flexible schedule and remote work.", kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("%s Engineer", kw),
			company: "BuildTech",
			site:    "jobvite.com",
			snippet: fmt.Sprintf("Looking for a %s Engineer with strong technical skills. Remote work available.", kw),
			keyword: kw,
		},
		{
			title:   fmt.Sprintf("%s Coordinator", kw),
			company: "ProjectFlow",
			site:    "bamboohr.com",
			snippet: fmt.Sprintf("%s Coordinator position available. Great opportunity for career growth in %s field.", kw, kw),
			keyword: kw,
		},
	}
}
