package task

import "strings"

// Kind identifies the handler a task routes to.
type Kind string

const (
	KindInstall         Kind = "install"
	KindFormat          Kind = "format"
	KindCountDates      Kind = "count_dates"
	KindSortContacts    Kind = "sort_contacts"
	KindRecentLogs      Kind = "recent_logs"
	KindMarkdownIndex   Kind = "markdown_index"
	KindEmailSender     Kind = "email_sender"
	KindCreditCard      Kind = "credit_card"
	KindSimilarComments Kind = "similar_comments"
	KindTicketSales     Kind = "ticket_sales"
	KindAPIFetch        Kind = "api_fetch"
	KindGit             Kind = "git"
	KindSQLQuery        Kind = "sql_query"
	KindScrape          Kind = "scrape"
	KindImage           Kind = "image"
	KindAudio           Kind = "audio"
	KindMarkdownHTML    Kind = "markdown_html"
	KindCSVFilter       Kind = "csv_filter"
	KindUnknown         Kind = "unknown"
)

// String returns the kind's identifier.
func (k Kind) String() string {
	return string(k)
}

// rule maps a keyword predicate to a handler kind. Exactly one of
// anyOf/allOf is set: anyOf matches when any keyword is present,
// allOf when every keyword is present.
type rule struct {
	anyOf []string
	allOf []string
	kind  Kind
}

func (r rule) matches(text string) bool {
	if len(r.allOf) > 0 {
		for _, kw := range r.allOf {
			if !strings.Contains(text, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.anyOf {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// rules is the classification table. Order is load-bearing: rules are
// evaluated top to bottom and the first match wins, so a task matching
// several predicates routes to the earliest. Reordering changes the
// routing of ambiguous task texts.
var rules = []rule{
	{anyOf: []string{"install uv", "datagen"}, kind: KindInstall},
	{allOf: []string{"format", "prettier"}, kind: KindFormat},
	{anyOf: []string{"wednesday", "thursday", "sunday"}, kind: KindCountDates},
	{allOf: []string{"sort", "contacts"}, kind: KindSortContacts},
	{allOf: []string{"log", "recent"}, kind: KindRecentLogs},
	{allOf: []string{"markdown", "h1"}, kind: KindMarkdownIndex},
	{allOf: []string{"email", "sender"}, kind: KindEmailSender},
	{allOf: []string{"credit", "card"}, kind: KindCreditCard},
	{allOf: []string{"similar", "comments"}, kind: KindSimilarComments},
	{anyOf: []string{"sqlite", "database", "ticket"}, kind: KindTicketSales},
	{allOf: []string{"api", "fetch"}, kind: KindAPIFetch},
	{anyOf: []string{"git"}, kind: KindGit},
	{anyOf: []string{"sql"}, kind: KindSQLQuery},
	{anyOf: []string{"scrape", "extract"}, kind: KindScrape},
	{anyOf: []string{"image"}, kind: KindImage},
	{anyOf: []string{"audio", "mp3"}, kind: KindAudio},
	{allOf: []string{"markdown", "html"}, kind: KindMarkdownHTML},
	{allOf: []string{"csv", "filter"}, kind: KindCSVFilter},
}

// Classify maps a task description to a handler kind using
// case-insensitive substring matching over the ordered rule table.
// Returns KindUnknown when no rule matches.
func Classify(text string) Kind {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r.kind
		}
	}
	return KindUnknown
}
