// Package feeds emits the RSS feed and the sitemap. Both are derived views:
// they read the content index after transformation and never influence it.
package feeds

import (
	"io"
	"time"

	"github.com/gorilla/feeds"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// feedSize caps the number of posts in the RSS feed.
const feedSize = 20

// WriteRSS writes the writing-section feed. Item links are absolute,
// rooted at the configured base URL.
func WriteRSS(w io.Writer, cfg *config.Config, posts []*content.Page, now time.Time) error {
	feed := &feeds.Feed{
		Title:       cfg.Site.Title,
		Link:        &feeds.Link{Href: cfg.Site.BaseURL + "/"},
		Description: cfg.Site.Description,
		Author:      &feeds.Author{Name: cfg.Site.Author},
		Updated:     now,
	}

	for i, post := range posts {
		if i == feedSize {
			break
		}
		item := &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: cfg.Site.BaseURL + post.URL},
			Description: post.Subtitle,
			Created:     post.Date,
			Id:          cfg.Site.BaseURL + post.URL,
		}
		if post.HTML != "" {
			item.Content = post.HTML
		}
		feed.Items = append(feed.Items, item)
	}

	if err := feed.WriteRss(w); err != nil {
		return siteerrors.RenderFailed("feed.xml", err)
	}
	return nil
}
