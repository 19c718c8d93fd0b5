package rss

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"feedsink/internal/domain"
)

// Tags names the element each item field is read from. Empty names fall
// back to the RSS 2.0 element.
type Tags struct {
	Title       string
	Link        string
	Author      string
	Description string
	GUID        string
	Publish     string
}

var defaultTags = Tags{
	Title:       "title",
	Link:        "link",
	Author:      "author",
	Description: "description",
	GUID:        "guid",
	Publish:     "pubDate",
}

func (t Tags) withDefaults() Tags {
	if t.Title == "" {
		t.Title = defaultTags.Title
	}
	if t.Link == "" {
		t.Link = defaultTags.Link
	}
	if t.Author == "" {
		t.Author = defaultTags.Author
	}
	if t.Description == "" {
		t.Description = defaultTags.Description
	}
	if t.GUID == "" {
		t.GUID = defaultTags.GUID
	}
	if t.Publish == "" {
		t.Publish = defaultTags.Publish
	}
	return t
}

func (t Tags) extract(item *gofeed.Item) domain.Item {
	return domain.Item{
		Title:       pick(item, t.Title, defaultTags.Title, item.Title),
		Link:        pick(item, t.Link, defaultTags.Link, item.Link),
		Author:      pick(item, t.Author, defaultTags.Author, authorName(item)),
		Description: pick(item, t.Description, defaultTags.Description, item.Description),
		GUID:        pick(item, t.GUID, defaultTags.GUID, item.GUID),
		PublishedAt: pick(item, t.Publish, defaultTags.Publish, item.Published),
	}
}

// pick returns the normalized value when tag is the default element and
// looks the tag up among the item's custom or namespaced elements otherwise.
func pick(item *gofeed.Item, tag, def, normalized string) string {
	if tag == def {
		return normalized
	}

	if prefix, name, ok := strings.Cut(tag, ":"); ok {
		if exts, ok := item.Extensions[prefix][name]; ok && len(exts) > 0 {
			return exts[0].Value
		}
		return ""
	}

	return item.Custom[tag]
}

func authorName(item *gofeed.Item) string {
	if item.Author != nil {
		if item.Author.Name != "" {
			return item.Author.Name
		}
		return item.Author.Email
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}
