package collections

import (
	"shelfstats-backend/lib/scrapers/douban"
	"shelfstats-backend/lib/textutil"
)

// the movie vertical mixes films and episodic content; these markers
// in a title or blurb tag an entry as a serial. Matching is keyword
// driven, not language driven.
var serialKeywords = []string{
	"season",
	"episode",
	"series",
	"季",
	"剧集",
	"电视剧",
	"连续剧",
	"mini-series",
}

// ClassifyScreen decides movie vs serial for one entry of the screen
// vertical. Books and music are never reclassified.
func ClassifyScreen(title, contextText string) douban.Kind {
	if textutil.ContainsAny(title, serialKeywords) ||
		textutil.ContainsAny(contextText, serialKeywords) {
		return douban.KindSerial
	}
	return douban.KindMovie
}
