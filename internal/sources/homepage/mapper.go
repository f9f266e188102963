package homepage

import "strings"

// Entry is one link found in a Homepage file, in file order.
type Entry struct {
	Category    string
	Name        string
	URL         string
	Description string
}

// Note renders the entry as a bookmark body: "Category / Name: description".
func (e Entry) Note() string {
	var b strings.Builder
	if e.Category != "" {
		b.WriteString(e.Category)
		b.WriteString(" / ")
	}
	b.WriteString(e.Name)
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// MapBookmarks flattens bookmarks.yaml. Entries without href are skipped;
// the abbr is used as name when present.
func MapBookmarks(cfg BookmarksConfig) []Entry {
	var entries []Entry
	for _, category := range cfg {
		for categoryName, bookmarkList := range category {
			for _, bookmarkMap := range bookmarkList {
				for bookmarkName, entryList := range bookmarkMap {
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]
					if strings.TrimSpace(entry.Href) == "" {
						continue
					}

					name := bookmarkName
					if entry.Abbr != "" {
						name = bookmarkName + " (" + entry.Abbr + ")"
					}
					entries = append(entries, Entry{
						Category:    categoryName,
						Name:        name,
						URL:         strings.TrimSpace(entry.Href),
						Description: entry.Description,
					})
				}
			}
		}
	}
	return entries
}

// MapServices flattens services.yaml. Services without href are skipped.
func MapServices(cfg ServicesConfig) []Entry {
	var entries []Entry
	for _, groupMap := range cfg {
		for groupName, servicesList := range groupMap {
			for _, serviceMap := range servicesList {
				for serviceName, props := range serviceMap {
					if strings.TrimSpace(props.Href) == "" {
						continue
					}
					entries = append(entries, Entry{
						Category:    groupName,
						Name:        serviceName,
						URL:         strings.TrimSpace(props.Href),
						Description: props.Description,
					})
				}
			}
		}
	}
	return entries
}
