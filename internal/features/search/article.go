package search

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	goose "github.com/advancedlogic/GoOse"
	"resty.dev/v3"
)

const maxArticleRunes = 4000

var (
	noiseTags = []string{
		"script", "style", "meta", "svg", "iframe", "source", "link", "input", "textarea",
		"button", "select", "option", "form", "noscript", "nav", "header", "footer", "aside",
	}
	spaceRe = regexp.MustCompile(`\s+`)
)

// Articles downloads a page and extracts its readable text.
type Articles struct {
	c *resty.Client
}

func NewArticles(timeout time.Duration) *Articles {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetHeader("User-Agent", "Mozilla/5.0 (compatible; Alfred/1.0)")
	return &Articles{c: c}
}

func (a *Articles) Extract(ctx context.Context, url string) (string, error) {
	resp, err := a.c.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("fetch article: status %s", resp.Status())
	}
	raw := resp.String()

	text := ""
	if art, err := goose.New().ExtractFromRawHTML(raw, url); err == nil && art != nil {
		text = art.CleanedText
	}
	if strings.TrimSpace(text) == "" {
		text, err = plainText(raw)
		if err != nil {
			return "", err
		}
	}
	return crop(collapse(text), maxArticleRunes), nil
}

func (a *Articles) Close() error {
	return a.c.Close()
}

// plainText is used when readability extraction finds nothing.
func plainText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse article: %w", err)
	}
	doc.Find(strings.Join(noiseTags, ",")).Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func crop(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
