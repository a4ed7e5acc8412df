package render

import (
	"github.com/muesli/termenv"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Banner is written once before playback starts.
const Banner = "Frotect demo log playback"

// Colors are ANSI codes or hex strings understood by termenv.
const (
	BannerColor = "82"
	ErrorColor  = "1"
)

// DefaultLevelColors is the terminal palette for log levels.
var DefaultLevelColors = map[string]string{
	string(model.LevelDebug):  "244",
	string(model.LevelInfo):   "33",
	string(model.LevelWarn):   "214",
	string(model.LevelError):  "1",
	string(model.LevelAuth):   "6",
	string(model.LevelAttack): "5",
	model.CategoryBenign:      "2",
	model.CategoryMalicious:   "5",
}

// TextConfig holds optional Text settings.
type TextConfig struct {
	Profile termenv.Profile // zero value is TrueColor; set Ascii to disable color
	Colors  map[string]string
	Format  Formatter
}

// Text is the colorized text adapter. Log lines color only the level tag;
// network lines are colored whole by their label category.
type Text struct {
	profile termenv.Profile
	colors  map[string]string
	format  Formatter
}

// NewText creates a Text adapter. Without config it renders ANSI256.
func NewText(conf ...TextConfig) *Text {
	t := &Text{profile: termenv.ANSI256, colors: DefaultLevelColors}
	if len(conf) > 0 {
		c := conf[0]
		t.profile = c.Profile
		if c.Colors != nil {
			merged := make(map[string]string, len(DefaultLevelColors)+len(c.Colors))
			for k, v := range DefaultLevelColors {
				merged[k] = v
			}
			for k, v := range c.Colors {
				merged[k] = v
			}
			t.colors = merged
		}
		t.format = c.Format
	}
	return t
}

// Line renders one event.
func (t *Text) Line(ev model.Event) string {
	if t.format != nil {
		return t.format(ev)
	}
	switch e := ev.(type) {
	case model.LogEvent:
		return t.paint("["+string(e.Level)+"]", string(e.Level)) + " " + logBody(e)
	case model.NetworkEvent:
		cat := model.CategoryOf(e)
		return t.paint(FormatNetwork(e), cat)
	default:
		return FormatEvent(ev)
	}
}

// BannerLine is the colored playback banner.
func (t *Text) BannerLine() string {
	return t.colorize(Banner, BannerColor)
}

// FetchError renders a load failure message.
func (t *Text) FetchError(msg string) string {
	return t.colorize("[FETCH] Error: "+msg, ErrorColor)
}

func (t *Text) paint(s, category string) string {
	color, ok := t.colors[category]
	if !ok {
		return s
	}
	return t.colorize(s, color)
}

func (t *Text) colorize(s, color string) string {
	return t.profile.String(s).Foreground(t.profile.Color(color)).String()
}
