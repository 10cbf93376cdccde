package douban

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"shelfstats-backend/lib/htmlutil"
)

// the profile page titles itself "<name> - 豆瓣" style, strip the site
// suffix to get the display name
var profileTitleSuffixes = []string{"的个人主页", "- 豆瓣", "-豆瓣"}

var registeredAtRegex = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*加入`)

// FetchProfile parses a user's profile page. Missing fields come back
// empty, only a failed fetch is an error.
func FetchProfile(ctx context.Context, fetcher Fetcher, baseURL, username string) (Profile, error) {
	ctx, span := tracer.Start(ctx, "FetchProfile")
	defer span.End()

	doc, err := fetcher.Document(ctx, fmt.Sprintf("%s/people/%s/", baseURL, username))
	if err != nil {
		return Profile{}, err
	}

	name := htmlutil.CleanText(doc.Find("title").Text())
	for _, suffix := range profileTitleSuffixes {
		name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
	}

	avatar := htmlutil.FirstAttr(doc.Selection, "src",
		".basic-info img",
		"#db-usr-profile .pic img",
	)

	registered := ""
	if m := registeredAtRegex.FindStringSubmatch(doc.Text()); m != nil {
		registered = m[1]
	}

	return Profile{
		Name:         name,
		AvatarURL:    avatar,
		RegisteredAt: registered,
	}, nil
}
