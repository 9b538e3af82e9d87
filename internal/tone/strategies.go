package tone

import (
	"fmt"
	"regexp"
	"strings"

	"contra/internal/types"
)

// =============================================================================
// SHARED BEHAVIOR
// =============================================================================

// baseStrategy carries the tone's copy table and the behaviors most tones
// share. Individual strategies override only what their tone changes.
type baseStrategy struct {
	tone types.Tone
	text toneCopy
}

func (b baseStrategy) Tone() types.Tone { return b.tone }

func (b baseStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	for _, p := range paragraphs {
		view.Blocks = append(view.Blocks, Block{Lines: []string{p}})
	}
	return view
}

func (b baseStrategy) Bullets(items []string) BulletView {
	view := BulletView{Marker: "•"}
	for _, it := range items {
		view.Items = append(view.Items, BulletItem{Text: it})
	}
	return view
}

func (b baseStrategy) Images(images []types.ImagePayload, topic string) ImageView {
	if len(images) == 0 {
		return ImageView{Empty: b.text.noImages}
	}
	title := types.FormatTitle(topic)
	view := ImageView{}
	for _, img := range images {
		caption := fmt.Sprintf(b.text.caption, title)
		if img.Style != "" {
			caption = fmt.Sprintf("%s (%s)", caption, img.Style)
		}
		view.Cards = append(view.Cards, ImageCard{
			URL:     img.ResolvedURL(),
			Caption: caption,
			Style:   img.Style,
		})
	}
	return view
}

func (b baseStrategy) Sources(src *types.SourceData) SourceView {
	view := SourceView{
		Encyclopedia: SourcePanel{Heading: b.text.encyclopediaHeading, Empty: b.text.noEncyclopedia},
		News:         SourcePanel{Heading: b.text.newsHeading, Empty: b.text.noNews},
		Categories:   SourcePanel{Heading: b.text.categoriesHeading, Empty: b.text.noCategories},
	}
	if src == nil {
		return view
	}
	if w := src.Wikipedia; w != nil && strings.TrimSpace(w.Summary) != "" {
		view.Encyclopedia.Lines = []string{strings.TrimSpace(w.Summary)}
		if w.URL != "" {
			view.Encyclopedia.Links = []string{w.URL}
		}
	}
	for _, a := range src.News {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		line := a.Title
		if a.Publisher != "" {
			line = fmt.Sprintf("%s (%s)", a.Title, a.Publisher)
		}
		view.News.Lines = append(view.News.Lines, line)
		view.News.Links = append(view.News.Links, a.URL)
	}
	if d := src.DBpedia; d != nil {
		for _, c := range d.Categories {
			if strings.TrimSpace(c) != "" {
				view.Categories.Lines = append(view.Categories.Lines, c)
			}
		}
		if d.ResourceURI != "" {
			view.Categories.Links = []string{d.ResourceURI}
		}
	}
	return view
}

// splitAtPauses breaks s after any rune in pauses, trimming each segment.
func splitAtPauses(s, pauses string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(pauses, r) {
			if seg := strings.TrimSpace(s[start : i+1]); seg != "" {
				out = append(out, seg)
			}
			start = i + len(string(r))
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

var emphasisPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(emphasisWords, "|") + `)\b`)

func starEmphasis(s string) string {
	return emphasisPattern.ReplaceAllString(s, "*$1*")
}

// =============================================================================
// TONE STRATEGIES
// =============================================================================

// dramaticStrategy pulls a quote from the first paragraph and stars the
// charged vocabulary.
type dramaticStrategy struct{ baseStrategy }

func (d dramaticStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	if sentences := splitAtPauses(paragraphs[0], ".!?"); len(sentences) > 0 {
		view.PullQuote = sentences[0]
	}
	for _, p := range paragraphs {
		view.Blocks = append(view.Blocks, Block{Lines: []string{starEmphasis(p)}})
	}
	return view
}

func (d dramaticStrategy) Bullets(items []string) BulletView {
	view := BulletView{Marker: "‣"}
	for _, it := range items {
		view.Items = append(view.Items, BulletItem{
			Text:       it,
			Emphasized: emphasisPattern.MatchString(it),
		})
	}
	return view
}

// poeticStrategy breaks sentences into lines at sentence ends and natural
// pauses, giving each paragraph a stanza shape.
type poeticStrategy struct{ baseStrategy }

func (p poeticStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	for _, para := range paragraphs {
		var lines []string
		for _, sentence := range splitAtPauses(para, ".!?") {
			lines = append(lines, splitAtPauses(sentence, ",;:")...)
		}
		if len(lines) == 0 {
			lines = []string{para}
		}
		view.Blocks = append(view.Blocks, Block{Lines: lines})
	}
	return view
}

func (p poeticStrategy) Bullets(items []string) BulletView {
	view := BulletView{Marker: "~"}
	for _, it := range items {
		view.Items = append(view.Items, BulletItem{Text: it})
	}
	return view
}

// humorousStrategy keeps the prose straight and lands the joke in the
// sign-off.
type humorousStrategy struct{ baseStrategy }

func (h humorousStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := h.baseStrategy.Narrative(paragraphs, topic)
	view.SignOff = fmt.Sprintf(h.text.signOff, types.FormatTitle(topic))
	return view
}

func (h humorousStrategy) Bullets(items []string) BulletView {
	view := BulletView{Marker: "→"}
	for _, it := range items {
		view.Items = append(view.Items, BulletItem{Text: it})
	}
	return view
}

// technicalStrategy enumerates the narrative into labeled sections and
// numbers its bullet items.
type technicalStrategy struct{ baseStrategy }

func (t technicalStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	for i, p := range paragraphs {
		heading := ""
		switch {
		case i == 0:
			heading = "Overview"
		case i == len(paragraphs)-1 && len(paragraphs) >= 3:
			heading = "Summary"
		default:
			heading = fmt.Sprintf("Section %d", i)
		}
		view.Blocks = append(view.Blocks, Block{Heading: heading, Lines: []string{p}})
	}
	return view
}

func (t technicalStrategy) Bullets(items []string) BulletView {
	view := BulletView{Ordered: true}
	for _, it := range items {
		view.Items = append(view.Items, BulletItem{Text: it})
	}
	return view
}

// simpleStrategy favors short lines: long paragraphs are re-broken at
// sentence boundaries so no single line runs on.
type simpleStrategy struct{ baseStrategy }

const simpleLongParagraph = 200

func (s simpleStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	for _, p := range paragraphs {
		if len(p) > simpleLongParagraph {
			view.Blocks = append(view.Blocks, Block{Lines: splitAtPauses(p, ".!?")})
			continue
		}
		view.Blocks = append(view.Blocks, Block{Lines: []string{p}})
	}
	return view
}

// informativeStrategy is the default voice. Longer narratives get the
// standard header scaffold.
type informativeStrategy struct{ baseStrategy }

func (s informativeStrategy) Narrative(paragraphs []string, topic string) NarrativeView {
	view := NarrativeView{}
	useHeaders := len(paragraphs) >= len(informativeHeaders)
	for i, p := range paragraphs {
		b := Block{Lines: []string{p}}
		if useHeaders && i < len(informativeHeaders) {
			b.Heading = informativeHeaders[i]
		}
		view.Blocks = append(view.Blocks, b)
	}
	return view
}
