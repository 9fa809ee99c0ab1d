// Package feed renders the public events list as an RSS 2.0 document.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/club-service/internal/models"
	"github.com/beevik/etree"
)

// Channel describes the feed itself
type Channel struct {
	Title       string
	Link        string
	Description string
}

// BuildRSS renders events as RSS 2.0. Events whose date cannot be parsed are
// emitted without a pubDate.
func BuildRSS(ch Channel, events []models.Event, now time.Time) ([]byte, error) {
	link := strings.TrimRight(ch.Link, "/")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(ch.Title)
	channel.CreateElement("link").SetText(link)
	channel.CreateElement("description").SetText(ch.Description)
	channel.CreateElement("lastBuildDate").SetText(now.UTC().Format(time.RFC1123Z))

	for _, e := range events {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(e.Title)
		item.CreateElement("description").SetText(e.Description)

		itemLink := e.GFormLink
		if itemLink == "" {
			itemLink = fmt.Sprintf("%s/events#%d", link, e.ID)
		}
		item.CreateElement("link").SetText(itemLink)

		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText(fmt.Sprintf("%s/events/%d", link, e.ID))

		if date, err := time.Parse(models.EventDateLayout, e.EventDate); err == nil {
			item.CreateElement("pubDate").SetText(date.Format(time.RFC1123Z))
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render feed: %w", err)
	}
	return out, nil
}
