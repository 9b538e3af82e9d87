package tone

import "contra/internal/types"

// toneCopy is the literal copy table for one tone: empty-state messages,
// caption templates and sub-panel headings. Every tone gets its own distinct
// wording so a degraded section still reads in voice.
type toneCopy struct {
	noImages string
	caption  string // fmt template, %s = topic title

	encyclopediaHeading string
	newsHeading         string
	categoriesHeading   string

	noEncyclopedia string
	noNews         string
	noCategories   string

	signOff string // fmt template, %s = topic title; empty = no sign-off
}

var copyTable = map[types.Tone]toneCopy{
	types.ToneDramatic: {
		noImages:            "The canvas remains empty. No images emerged for this tale.",
		caption:             "A vision of %s",
		encyclopediaHeading: "The Chronicle",
		newsHeading:         "Dispatches",
		categoriesHeading:   "Realms",
		noEncyclopedia:      "The chronicle holds no entry for this subject.",
		noNews:              "No dispatches have arrived.",
		noCategories:        "This subject belongs to no charted realm.",
	},
	types.TonePoetic: {
		noImages:            "No pictures bloomed this time; let the words paint for you.",
		caption:             "An impression of %s",
		encyclopediaHeading: "From the Annals",
		newsHeading:         "Voices of the Day",
		categoriesHeading:   "Threads",
		noEncyclopedia:      "The annals are silent here.",
		noNews:              "No voices carry the news today.",
		noCategories:        "No threads to follow.",
	},
	types.ToneHumorous: {
		noImages:            "No images today. The art department is on a coffee break.",
		caption:             "Behold: %s",
		encyclopediaHeading: "The Smart-Sounding Bit",
		newsHeading:         "Hot Off the Press",
		categoriesHeading:   "The Filing Cabinet",
		noEncyclopedia:      "Even the encyclopedia shrugged at this one.",
		noNews:              "The press has nothing hot, or even lukewarm.",
		noCategories:        "The filing cabinet is empty. Suspiciously empty.",
		signOff:             "And that, friends, is %s. You are now dangerously qualified for trivia night.",
	},
	types.ToneTechnical: {
		noImages:            "Image generation returned zero assets for this request.",
		caption:             "Figure: %s",
		encyclopediaHeading: "Reference Summary",
		newsHeading:         "News Feed",
		categoriesHeading:   "Classification",
		noEncyclopedia:      "No reference summary available.",
		noNews:              "News feed returned no entries.",
		noCategories:        "No classification data available.",
	},
	types.ToneSimple: {
		noImages:            "No images were made for this topic.",
		caption:             "%s",
		encyclopediaHeading: "Summary",
		newsHeading:         "News",
		categoriesHeading:   "Topics",
		noEncyclopedia:      "No summary found.",
		noNews:              "No news found.",
		noCategories:        "No related topics found.",
	},
	types.ToneInformative: {
		noImages:            "No images are available for this topic.",
		caption:             "Illustration of %s",
		encyclopediaHeading: "Encyclopedic Summary",
		newsHeading:         "In the News",
		categoriesHeading:   "Categories",
		noEncyclopedia:      "No encyclopedic summary is available.",
		noNews:              "No recent news articles were found.",
		noCategories:        "No category information is available.",
	},
}

// emphasisWords get starred in dramatic narrative text and flag dramatic
// bullet items for emphasis.
var emphasisWords = []string{
	"critical", "dramatic", "revolutionary", "extraordinary",
	"profound", "devastating", "remarkable",
}

// informativeHeaders structure long informative narratives, applied when at
// least four paragraphs are present.
var informativeHeaders = []string{
	"Introduction", "Key Aspects", "Significance", "Conclusion",
}
