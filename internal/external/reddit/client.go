package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/httputil"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/redis"
)

const (
	TokenURL = "https://www.reddit.com/api/v1/access_token"
	APIURL   = "https://oauth.reddit.com"
)

// Client reads subreddit listings over Reddit's OAuth API (application-only)
// ⭐ SSOT: Reddit API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient builds a client-credentials OAuth client. The token is fetched
// lazily and refreshed by the oauth2 transport. limiter may be nil.
func NewClient(cfg config.RedditConfig, limiter *redis.RateLimiter, log *logger.Logger) *Client {
	oauthConf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	hc := oauthConf.Client(context.Background())
	hc.Timeout = 30 * time.Second

	httpClient := httputil.NewWithHTTPClient(log, hc)
	if limiter != nil {
		httpClient = httpClient.WithRateLimiter(limiter, redis.RedditRateLimit)
	}

	return NewClientWithHTTP(httpClient, APIURL, cfg.UserAgent, log)
}

// NewClientWithHTTP uses an already authenticated transport
func NewClientWithHTTP(httpClient *httputil.Client, baseURL, userAgent string, log *logger.Logger) *Client {
	if userAgent != "" {
		httpClient = httpClient.WithHeader("User-Agent", userAgent)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("reddit"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"` // t3 = post, t1 = comment, more
	Data json.RawMessage `json:"data"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

type commentData struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

// Hot returns the subreddit's hot listing, unfiltered
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]contracts.Post, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("raw_json", "1")

	var l listing
	if err := c.httpClient.GetJSON(ctx, c.url("/r/"+subreddit+"/hot", params), &l); err != nil {
		return nil, fmt.Errorf("hot r/%s: %w", subreddit, err)
	}

	posts := make([]contracts.Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var p postData
		if err := json.Unmarshal(child.Data, &p); err != nil {
			c.logger.WithError(err).Warn("skipping malformed post")
			continue
		}
		posts = append(posts, contracts.Post{
			ID:          p.ID,
			Subreddit:   subreddit,
			Title:       p.Title,
			Body:        p.Selftext,
			Author:      authorOrDeleted(p.Author),
			URL:         "https://reddit.com" + p.Permalink,
			Score:       p.Score,
			NumComments: p.NumComments,
			CreatedAt:   unixTime(p.CreatedUTC),
			Stickied:    p.Stickied,
		})
	}

	return posts, nil
}

// Comments returns up to limit top-level comments of a post, highest score first
func (c *Client) Comments(ctx context.Context, subreddit, postID string, limit int) ([]contracts.Comment, error) {
	params := url.Values{}
	params.Set("sort", "top")
	params.Set("depth", "1")
	params.Set("raw_json", "1")

	// [0] = the post itself, [1] = comment tree
	var listings []listing
	if err := c.httpClient.GetJSON(ctx, c.url("/r/"+subreddit+"/comments/"+postID, params), &listings); err != nil {
		return nil, fmt.Errorf("comments %s: %w", postID, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []contracts.Comment
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			continue
		}
		comments = append(comments, contracts.Comment{
			ID:        cd.ID,
			Body:      cd.Body,
			Author:    authorOrDeleted(cd.Author),
			Score:     cd.Score,
			CreatedAt: unixTime(cd.CreatedUTC),
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Score > comments[j].Score
	})
	if limit >= 0 && len(comments) > limit {
		comments = comments[:limit]
	}

	return comments, nil
}

func (c *Client) url(path string, params url.Values) string {
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
}

func authorOrDeleted(author string) string {
	if author == "" {
		return "[deleted]"
	}
	return author
}

func unixTime(sec float64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}
