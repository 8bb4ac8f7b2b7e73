package feed

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/dmorgan81/kittenbass/internal/store"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
	"github.com/samber/lo"
)

type Generator struct {
	store *store.Store
}

func NewGenerator(i *do.Injector) (*Generator, error) {
	return &Generator{store: do.MustInvoke[*store.Store](i)}, nil
}

// Generate renders an RSS feed of the images that are still live in the store.
func (g *Generator) Generate(ctx context.Context, baseURL string) ([]byte, error) {
	listings := g.store.List()
	log := log.FromContextOrDiscard(ctx).WithGroup("feed")
	log.Info("generating rss feed", "items", len(listings))

	feed := feeds.Feed{
		Title:       "Kittens, Boots & Bass",
		Description: "AI generated kittens playing bass, kept for " + g.store.TTL().String(),
		Link:        &feeds.Link{Href: baseURL + "/"},
		Updated:     time.Now().UTC(),
	}

	feed.Items = lo.Map(listings, func(l store.Listing, _ int) *feeds.Item {
		title, _, _ := strings.Cut(l.Prompt, "\n")
		return &feeds.Item{
			Id:          l.ID,
			Title:       title + ":" + l.Model,
			Description: l.Prompt,
			Link:        &feeds.Link{Href: baseURL + "/kitten/" + l.ID},
			Enclosure: &feeds.Enclosure{
				Url:    baseURL + "/img/" + l.ID,
				Length: strconv.Itoa(l.Size),
				Type:   l.ContentType,
			},
			Created: l.CreatedAt,
		}
	})

	rss, err := feed.ToRss()
	return []byte(rss), err
}
