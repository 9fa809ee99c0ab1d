package feed

import (
	"testing"
	"time"

	"github.com/Dan9191/club-service/internal/models"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRSS(t *testing.T) {
	events := []models.Event{
		{ID: 2, Title: "Hackathon", Description: "24h <build>", EventDate: "2025-11-20", GFormLink: "https://forms.example/h"},
		{ID: 1, Title: "Orientation", Description: "Welcome", EventDate: "bad-date"},
	}
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	out, err := BuildRSS(Channel{Title: "ADAS Club events", Link: "https://club.example/", Description: "Upcoming events"}, events, now)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	rss := doc.SelectElement("rss")
	require.NotNil(t, rss)
	assert.Equal(t, "2.0", rss.SelectAttrValue("version", ""))

	assert.Equal(t, "ADAS Club events", doc.FindElement("//channel/title").Text())
	assert.Equal(t, "https://club.example", doc.FindElement("//channel/link").Text())

	items := doc.FindElements("//channel/item")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Hackathon", first.SelectElement("title").Text())
	assert.Equal(t, "24h <build>", first.SelectElement("description").Text())
	assert.Equal(t, "https://forms.example/h", first.SelectElement("link").Text())
	assert.Equal(t, "https://club.example/events/2", first.SelectElement("guid").Text())
	assert.Equal(t, "Thu, 20 Nov 2025 00:00:00 +0000", first.SelectElement("pubDate").Text())

	second := items[1]
	assert.Equal(t, "https://club.example/events#1", second.SelectElement("link").Text())
	assert.Nil(t, second.SelectElement("pubDate"))
}

func TestBuildRSS_NoEvents(t *testing.T) {
	out, err := BuildRSS(Channel{Title: "Events", Link: "http://localhost:8080"}, nil, time.Now())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Empty(t, doc.FindElements("//item"))
	assert.NotNil(t, doc.FindElement("//channel/lastBuildDate"))
}
