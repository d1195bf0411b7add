// Package notify renders job search results into email notifications.
package notify

import (
	"fmt"
	"html"
	"strings"

	"dailyjobs/search-service/internal/model"
)

// EmptyBody is the body produced when a run found nothing. Policy: the
// coordinator does not send a message with this body.
const EmptyBody = "No new jobs found today."

const snippetLimit = 200

// Message is a rendered notification.
type Message struct {
	Subject string
	Body    string
}

// Compose renders postings into an HTML message, grouped by matched keyword
// in first-occurrence order.
func Compose(postings []model.JobPosting, configName string) Message {
	subject := fmt.Sprintf("Daily Job Search Results - %d new jobs found", len(postings))
	if len(postings) == 0 {
		return Message{Subject: subject, Body: EmptyBody}
	}

	var order []string
	groups := make(map[string][]model.JobPosting)
	for _, p := range postings {
		if _, ok := groups[p.Keyword]; !ok {
			order = append(order, p.Keyword)
		}
		groups[p.Keyword] = append(groups[p.Keyword], p)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Daily Job Search Results - %s</h2>\n", html.EscapeString(configName))
	fmt.Fprintf(&b, "<p>Found %d new job postings today!</p>\n", len(postings))

	for _, kw := range order {
		jobs := groups[kw]
		fmt.Fprintf(&b, "<h3>Keyword: %s (%d jobs)</h3>\n<ul>\n", html.EscapeString(kw), len(jobs))
		for _, j := range jobs {
			fmt.Fprintf(&b, "<li>\n<strong><a href=\"%s\" target=\"_blank\">%s</a></strong><br>\n<em>Site: %s</em><br>\n<small>%s</small>\n</li>\n",
				html.EscapeString(j.Link),
				html.EscapeString(j.Title),
				html.EscapeString(j.Site),
				html.EscapeString(truncate(j.Snippet, snippetLimit)))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<hr>\n<p><small>This email was generated automatically by the Daily Job Search Bot.</small></p>\n")
	return Message{Subject: subject, Body: b.String()}
}

// truncate shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
