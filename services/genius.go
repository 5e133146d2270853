package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"hot100-lyrics/models"
)

const geniusAPI = "https://api.genius.com"

// Genius resolves artists and lyrics through the Genius search API and song
// pages. Verbose promotes per-request logging from debug to info.
type Genius struct {
	BaseURL string
	Verbose bool

	token     string
	pageDelay time.Duration
	client    *http.Client
	log       zerolog.Logger
}

func NewGenius(token string, verbose bool, log zerolog.Logger) *Genius {
	return &Genius{
		BaseURL:   geniusAPI,
		Verbose:   verbose,
		token:     token,
		pageDelay: 300 * time.Millisecond,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

type geniusHit struct {
	Type   string `json:"type"`
	Result struct {
		ID            int    `json:"id"`
		Title         string `json:"title"`
		URL           string `json:"url"`
		PrimaryArtist struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"primary_artist"`
	} `json:"result"`
}

type geniusSearch struct {
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

// SearchArtist returns the best match for name, or nil when Genius has no hit.
func (g *Genius) SearchArtist(ctx context.Context, name string, maxResults int) (*models.Artist, error) {
	hits, err := g.search(ctx, name, maxResults)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	best := hits[0]
	want := normalizeName(name)
	for _, h := range hits {
		if normalizeName(h.Result.PrimaryArtist.Name) == want {
			best = h
			break
		}
	}

	g.trace().Str("query", name).Str("artist", best.Result.PrimaryArtist.Name).Msg("artist resolved")
	return &models.Artist{ID: best.Result.PrimaryArtist.ID, Name: best.Result.PrimaryArtist.Name}, nil
}

// SearchSong looks title up under artistName and scrapes the lyrics. A nil
// result means no matching song or a page without lyrics.
func (g *Genius) SearchSong(ctx context.Context, title, artistName string) (*models.LyricsResult, error) {
	hits, err := g.search(ctx, title+" "+artistName, 5)
	if err != nil {
		return nil, err
	}

	hit, ok := pickSong(hits, title, artistName)
	if !ok {
		return nil, nil
	}

	// Sleeping between the API and the page keeps the two requests apart.
	time.Sleep(g.pageDelay)

	lyrics, err := g.fetchLyrics(ctx, hit.Result.URL)
	if err != nil {
		return nil, err
	}
	if lyrics == "" {
		g.trace().Str("url", hit.Result.URL).Msg("page has no lyrics")
		return nil, nil
	}

	g.trace().Str("title", hit.Result.Title).Str("artist", hit.Result.PrimaryArtist.Name).Msg("lyrics fetched")
	return &models.LyricsResult{
		Title:  hit.Result.Title,
		Artist: hit.Result.PrimaryArtist.Name,
		URL:    hit.Result.URL,
		Lyrics: lyrics,
	}, nil
}

// pickSong prefers an exact title match by the artist, then any song by the
// artist.
func pickSong(hits []geniusHit, title, artistName string) (geniusHit, bool) {
	wantTitle := normalizeName(title)
	wantArtist := normalizeName(artistName)

	var byArtist *geniusHit
	for i, h := range hits {
		if h.Type != "" && h.Type != "song" {
			continue
		}
		if normalizeName(h.Result.PrimaryArtist.Name) != wantArtist {
			continue
		}
		if normalizeName(h.Result.Title) == wantTitle {
			return h, true
		}
		if byArtist == nil {
			byArtist = &hits[i]
		}
	}
	if byArtist != nil {
		return *byArtist, true
	}
	return geniusHit{}, false
}

func (g *Genius) search(ctx context.Context, query string, perPage int) ([]geniusHit, error) {
	params := url.Values{"q": {query}}
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genius request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("genius read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("genius: HTTP %d", resp.StatusCode)
	}

	var s geniusSearch
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("genius parse error: %w", err)
	}
	return s.Response.Hits, nil
}

func (g *Genius) fetchLyrics(ctx context.Context, songURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, songURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("genius page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genius page: HTTP %d", resp.StatusCode)
	}

	return parseGeniusHTML(resp.Body), nil
}

func (g *Genius) trace() *zerolog.Event {
	if g.Verbose {
		return g.log.Info()
	}
	return g.log.Debug()
}

func parseGeniusHTML(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var sb strings.Builder

	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && attr(n, "data-lyrics-container") == "true" {
			getText(n, &sb)
			sb.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}

	find(doc)
	return strings.TrimSpace(sb.String())
}

func getText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getText(c, sb)
	}
}

// normalizeName lowercases and drops everything but letters and digits.
func normalizeName(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
