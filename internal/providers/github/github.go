package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/core"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "folio/0.1"

	acceptJSON          = "application/vnd.github+json"
	acceptCommitSearch  = "application/vnd.github.cloak-preview"
	repoSearchPageSize  = 100
	languageSampleRepos = 30
	commitSampleRepos   = 5
	commitsPerRepo      = 20
	eventsPageSize      = 100
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.Endpoint)
}

type Provider struct {
	client  *http.Client
	baseURL string
	token   string
	log     *zap.SugaredLogger
	now     func() time.Time
	loc     *time.Location
}

type Option func(*Provider)

func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Provider) { p.log = l }
}

// WithClock sets the clock used for "this year" queries and lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithLocation sets the time zone commits are bucketed into weekdays with.
func WithLocation(loc *time.Location) Option {
	return func(p *Provider) { p.loc = loc }
}

func New(token string, opts ...Option) *Provider {
	p := &Provider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
		log:     zap.NewNop().Sugar(),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "github"
}

type githubUser struct {
	Login     string `json:"login"`
	HTMLURL   string `json:"html_url"`
	Followers int    `json:"followers"`
}

type githubRepo struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
}

type githubEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		Commits []json.RawMessage `json:"commits"`
	} `json:"payload"`
}

type githubCommit struct {
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// Fetch runs one aggregation for handle. Only the profile request is fatal;
// every other request failure is logged and that piece is left empty.
func (p *Provider) Fetch(ctx context.Context, handle string) (core.GitHubStats, error) {
	user, err := p.fetchUser(ctx, handle)
	if err != nil {
		return core.GitHubStats{}, fmt.Errorf("github: fetch user: %w", err)
	}

	repos, err := p.searchRepos(ctx, handle)
	if err != nil {
		p.log.Warnw("repository search failed, continuing without repositories", "user", handle, "error", err)
		repos = nil
	}

	perRepoLangs := p.collectLanguages(ctx, handle, head(repos, languageSampleRepos))
	langBytes, totalBytes := core.FoldLanguageBytes(perRepoLangs)

	pushes := p.fetchPushActivity(ctx, handle)
	commitDates := p.collectCommitDates(ctx, handle, head(repos, commitSampleRepos))
	weekdayCounts := core.CountWeekdays(pushes, commitDates, p.loc)

	since := fmt.Sprintf("%d-01-01", p.now().In(p.loc).Year())

	commitsThisYear := p.searchCountOrZero(ctx, "commits",
		fmt.Sprintf("author:%s committer-date:>=%s", handle, since), acceptCommitSearch)
	issuesThisYear := p.searchCountOrZero(ctx, "issues",
		fmt.Sprintf("author:%s type:issue created:>=%s", handle, since), acceptJSON)
	prsThisYear := p.searchCountOrZero(ctx, "issues",
		fmt.Sprintf("author:%s type:pr created:>=%s", handle, since), acceptJSON)

	return core.GitHubStats{
		Profile: core.ProfileCounters{
			Followers:    user.Followers,
			TotalStars:   sumStars(repos),
			TotalCommits: commitsThisYear,
			TotalPRs:     prsThisYear,
			TotalIssues:  issuesThisYear,
			URL:          user.HTMLURL,
		},
		Languages:   core.LanguageShares(langBytes, totalBytes, core.TopLanguageCount),
		Weekdays:    core.WeekdayDistribution(weekdayCounts),
		LastUpdated: p.now().UTC(),
	}, nil
}

func (p *Provider) fetchUser(ctx context.Context, handle string) (*githubUser, error) {
	endpoint := fmt.Sprintf("%s/users/%s", p.baseURL, url.PathEscape(handle))

	var u githubUser
	if err := p.getJSON(ctx, endpoint, acceptJSON, &u); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("user %q not found", handle)
		}
		return nil, err
	}
	return &u, nil
}

// searchRepos returns up to 100 repositories owned by handle, most recently
// updated first.
func (p *Provider) searchRepos(ctx context.Context, handle string) ([]githubRepo, error) {
	q := url.Values{}
	q.Set("q", "user:"+handle)
	q.Set("per_page", fmt.Sprint(repoSearchPageSize))
	q.Set("sort", "updated")
	endpoint := fmt.Sprintf("%s/search/repositories?%s", p.baseURL, q.Encode())

	var result struct {
		Items []githubRepo `json:"items"`
	}
	if err := p.getJSON(ctx, endpoint, acceptJSON, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (p *Provider) collectLanguages(ctx context.Context, handle string, repos []githubRepo) []map[string]int64 {
	out := make([]map[string]int64, 0, len(repos))

	for _, r := range repos {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/languages", p.baseURL, url.PathEscape(handle), url.PathEscape(r.Name))

		var langs map[string]int64
		if err := p.getJSON(ctx, endpoint, acceptJSON, &langs); err != nil {
			p.log.Warnw("fetch languages failed", "repo", r.Name, "error", err)
			continue
		}
		out = append(out, langs)
	}

	return out
}

func (p *Provider) fetchPushActivity(ctx context.Context, handle string) []core.PushActivity {
	endpoint := fmt.Sprintf("%s/users/%s/events?per_page=%d", p.baseURL, url.PathEscape(handle), eventsPageSize)

	var events []githubEvent
	if err := p.getJSON(ctx, endpoint, acceptJSON, &events); err != nil {
		p.log.Warnw("fetch events failed", "user", handle, "error", err)
		return nil
	}

	pushes := lo.Filter(events, func(e githubEvent, _ int) bool {
		return e.Type == "PushEvent" && e.Payload.Commits != nil
	})

	return lo.Map(pushes, func(e githubEvent, _ int) core.PushActivity {
		return core.PushActivity{CreatedAt: e.CreatedAt, Commits: len(e.Payload.Commits)}
	})
}

func (p *Provider) collectCommitDates(ctx context.Context, handle string, repos []githubRepo) []time.Time {
	var dates []time.Time

	for _, r := range repos {
		q := url.Values{}
		q.Set("author", handle)
		q.Set("per_page", fmt.Sprint(commitsPerRepo))
		endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?%s",
			p.baseURL, url.PathEscape(handle), url.PathEscape(r.Name), q.Encode())

		var commits []githubCommit
		if err := p.getJSON(ctx, endpoint, acceptJSON, &commits); err != nil {
			p.log.Warnw("fetch commits failed", "repo", r.Name, "error", err)
			continue
		}

		for _, c := range commits {
			dates = append(dates, c.Commit.Author.Date)
		}
	}

	return dates
}

// searchCountOrZero runs a search query and returns only its total_count.
func (p *Provider) searchCountOrZero(ctx context.Context, kind, query, accept string) int {
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", "1")
	endpoint := fmt.Sprintf("%s/search/%s?%s", p.baseURL, kind, q.Encode())

	var result struct {
		TotalCount int `json:"total_count"`
	}
	if err := p.getJSON(ctx, endpoint, accept, &result); err != nil {
		p.log.Warnw("search count failed", "query", query, "error", err)
		return 0
	}
	return result.TotalCount
}

func (p *Provider) getJSON(ctx context.Context, endpoint, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	p.applyHeaders(req, accept)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (p *Provider) applyHeaders(req *http.Request, accept string) {
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", defaultUserAgent)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
}

func sumStars(repos []githubRepo) int {
	return lo.SumBy(repos, func(r githubRepo) int { return r.StargazersCount })
}

// head returns at most the first n repositories, in fetched order.
func head(repos []githubRepo, n int) []githubRepo {
	if len(repos) > n {
		return repos[:n]
	}
	return repos
}
