// Package blog reads published posts from a Contentful-style content
// delivery API and renders their rich-text bodies to HTML. The CMS is a
// read-only external collaborator.
package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

const postContentType = "pageBlogPost"

type Config struct {
	// BaseURL lets tests point the client at a local server.
	BaseURL       string
	SpaceID       string
	Environment   string
	DeliveryToken string
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = "https://cdn.contentful.com"
	}
	env := cfg.Environment
	if env == "" {
		env = "master"
	}
	return &Client{
		baseURL: fmt.Sprintf("%s/spaces/%s/environments/%s", base, cfg.SpaceID, env),
		token:   cfg.DeliveryToken,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type Post struct {
	ID               string `json:"id"`
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	PublishedDate    string `json:"published_date,omitempty"`
	FeaturedImageURL string `json:"featured_image_url,omitempty"`
}

type PostDetail struct {
	Post
	BodyHTML string `json:"body_html"`
}

func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	response, err := c.entries(ctx, url.Values{
		"content_type": {postContentType},
		"order":        {"-fields.publishedDate"},
		"limit":        {"20"},
		"include":      {"3"},
	})
	if err != nil {
		return nil, err
	}
	assets := response.Includes.assetsByID()
	posts := make([]Post, 0, len(response.Items))
	for _, item := range response.Items {
		posts = append(posts, item.toPost(assets))
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, slug string) (PostDetail, error) {
	response, err := c.entries(ctx, url.Values{
		"content_type": {postContentType},
		"fields.slug":  {slug},
		"limit":        {"1"},
		"include":      {"3"},
	})
	if err != nil {
		return PostDetail{}, err
	}
	if len(response.Items) == 0 {
		return PostDetail{}, ErrPostNotFound
	}
	item := response.Items[0]
	assets := response.Includes.assetsByID()
	bodyHTML, err := renderDocument(item.Fields.Content, assets)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{
		Post:     item.toPost(assets),
		BodyHTML: bodyHTML,
	}, nil
}

func (c *Client) entries(ctx context.Context, query url.Values) (entriesResponse, error) {
	endpoint := c.baseURL + "/entries?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entriesResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	res, err := c.http.Do(req)
	if err != nil {
		return entriesResponse{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return entriesResponse{}, fmt.Errorf("content source returned %d", res.StatusCode)
	}
	var parsed entriesResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return entriesResponse{}, err
	}
	return parsed, nil
}

type entriesResponse struct {
	Items    []entry  `json:"items"`
	Includes includes `json:"includes"`
}

type entry struct {
	Sys    sys         `json:"sys"`
	Fields entryFields `json:"fields"`
}

type entryFields struct {
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	PublishedDate string          `json:"publishedDate"`
	FeaturedImage *assetLink      `json:"featuredImage"`
	Content       json.RawMessage `json:"content"`
}

type sys struct {
	ID string `json:"id"`
}

type assetLink struct {
	Sys sys `json:"sys"`
}

type includes struct {
	Asset []asset `json:"Asset"`
}

type asset struct {
	Sys    sys         `json:"sys"`
	Fields assetFields `json:"fields"`
}

type assetFields struct {
	Title string    `json:"title"`
	File  assetFile `json:"file"`
}

type assetFile struct {
	URL string `json:"url"`
}

func (i includes) assetsByID() map[string]asset {
	byID := make(map[string]asset, len(i.Asset))
	for _, a := range i.Asset {
		byID[a.Sys.ID] = a
	}
	return byID
}

func (e entry) toPost(assets map[string]asset) Post {
	post := Post{
		ID:            e.Sys.ID,
		Slug:          e.Fields.Slug,
		Title:         e.Fields.Title,
		PublishedDate: e.Fields.PublishedDate,
	}
	if e.Fields.FeaturedImage != nil {
		if a, ok := assets[e.Fields.FeaturedImage.Sys.ID]; ok {
			post.FeaturedImageURL = toHTTPS(a.Fields.File.URL)
		}
	}
	return post
}

// toHTTPS upgrades protocol-relative asset URLs the CMS hands out.
func toHTTPS(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
