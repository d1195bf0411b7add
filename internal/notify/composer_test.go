package notify_test

import (
	"strings"
	"testing"

	"dailyjobs/search-service/internal/model"
	"dailyjobs/search-service/internal/notify"
)

func posting(keyword, title string) model.JobPosting {
	return model.JobPosting{
		Title:   title,
		Link:    "https://example.com/job1",
		Snippet: "A short snippet.",
		Site:    "greenhouse.io",
		Keyword: keyword,
	}
}

func TestCompose_EmptyPostings(t *testing.T) {
	msg := notify.Compose(nil, "My Search")

	if msg.Body != notify.EmptyBody {
		t.Errorf("body = %q, want the fixed empty-result body", msg.Body)
	}
	if !strings.Contains(msg.Subject, "0 new jobs") {
		t.Errorf("subject = %q, want zero count", msg.Subject)
	}
}

func TestCompose_SubjectCountsPostings(t *testing.T) {
	postings := []model.JobPosting{posting("python", "A"), posting("python", "B")}
	msg := notify.Compose(postings, "My Search")

	if msg.Subject != "Daily Job Search Results - 2 new jobs found" {
		t.Errorf("subject = %q", msg.Subject)
	}
}

func TestCompose_GroupsByKeywordInFirstOccurrenceOrder(t *testing.T) {
	postings := []model.JobPosting{
		posting("go", "Go Engineer"),
		posting("python", "Python Engineer"),
		posting("go", "Go Developer"),
	}
	msg := notify.Compose(postings, "Weekly")

	goIdx := strings.Index(msg.Body, "<h3>Keyword: go (2 jobs)</h3>")
	pyIdx := strings.Index(msg.Body, "<h3>Keyword: python (1 jobs)</h3>")
	if goIdx == -1 || pyIdx == -1 {
		t.Fatalf("missing keyword sections in body:\n%s", msg.Body)
	}
	if goIdx > pyIdx {
		t.Error("sections must follow first-occurrence order of keywords")
	}
}

func TestCompose_SectionCountsSumToTotal(t *testing.T) {
	postings := []model.JobPosting{
		posting("a", "1"), posting("b", "2"), posting("a", "3"), posting("c", "4"),
	}
	msg := notify.Compose(postings, "X")

	if sections := strings.Count(msg.Body, "<h3>"); sections != 3 {
		t.Errorf("got %d sections, want 3", sections)
	}
	if items := strings.Count(msg.Body, "<li>"); items != len(postings) {
		t.Errorf("got %d items, want %d", items, len(postings))
	}
	if !strings.Contains(msg.Body, "Found 4 new job postings today!") {
		t.Error("heading should carry the total count")
	}
}

func TestCompose_TruncatesLongSnippets(t *testing.T) {
	p := posting("python", "Engineer")
	p.Snippet = strings.Repeat("x", 250)
	msg := notify.Compose([]model.JobPosting{p}, "X")

	if !strings.Contains(msg.Body, strings.Repeat("x", 200)+"...") {
		t.Error("snippet should be cut at 200 characters with an ellipsis")
	}
	if strings.Contains(msg.Body, strings.Repeat("x", 201)) {
		t.Error("snippet must not exceed 200 characters")
	}
}

func TestCompose_ShortSnippetNotMarked(t *testing.T) {
	msg := notify.Compose([]model.JobPosting{posting("python", "Engineer")}, "X")

	if strings.Contains(msg.Body, "A short snippet....") {
		t.Error("short snippets must not gain an ellipsis")
	}
	if !strings.Contains(msg.Body, "A short snippet.") {
		t.Error("snippet missing from body")
	}
}

func TestCompose_LinkEscapedAsHTMLAttribute(t *testing.T) {
	p := posting("python", "Engineer")
	p.Link = `https://example.com/jobs?id=1&lang=日本語&q="go"`
	msg := notify.Compose([]model.JobPosting{p}, "X")

	want := `<a href="https://example.com/jobs?id=1&amp;lang=日本語&amp;q=&#34;go&#34;" target="_blank">`
	if !strings.Contains(msg.Body, want) {
		t.Errorf("link not attribute-escaped:\n%s", msg.Body)
	}
	if strings.Contains(msg.Body, `\u`) {
		t.Error("link must not carry Go string escapes")
	}
}

func TestCompose_HeadingCarriesConfigName(t *testing.T) {
	msg := notify.Compose([]model.JobPosting{posting("python", "Engineer")}, "Backend roles")

	if !strings.Contains(msg.Body, "<h2>Daily Job Search Results - Backend roles</h2>") {
		t.Errorf("heading missing config name:\n%s", msg.Body)
	}
}
