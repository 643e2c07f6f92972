package bot

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/catalog"
	"github.com/xaenox/tube-agent/internal/models"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `1\.2M \- \(new\)\!`, escapeMarkdown("1.2M - (new)!"))
	assert.Equal(t, `a\\b`, escapeMarkdown(`a\b`))
	assert.Equal(t, "plain", escapeMarkdown("plain"))
}

func TestFormatVideo(t *testing.T) {
	v := models.Video{ID: "abc", Title: "Go 1.22", ChannelName: "Dev", ViewCount: "1.2M", PublishedAt: "3 days ago", Duration: "12:34", Category: "Technology"}
	got := formatVideo(2, v)

	assert.True(t, strings.HasPrefix(got, `*2\. Go 1\.22*`))
	assert.Contains(t, got, `1\.2M views`)
	assert.Contains(t, got, `\#Technology`)
	assert.Contains(t, got, "`abc`")
}

func TestRenderViewButtons(t *testing.T) {
	c := catalog.Default()
	videos := c.Videos()[:2]
	view := &agent.View{Tab: models.TabAgent, Text: "hi", Videos: videos}

	text, markup := renderView(view)
	assert.Contains(t, text, "hi")
	assert.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, markAdd+" 1", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, markPlay+" 1", markup.InlineKeyboard[0][1].Text)
}

func TestSetToggleState(t *testing.T) {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(markAdd+" 1", "wl:a"),
			tgbotapi.NewInlineKeyboardButtonData(markPlay+" 1", "play:a"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(markAdd+" 2", "wl:b"),
		),
	)

	assert.True(t, setToggleState(&markup, "b", true))
	assert.Equal(t, markInList+" 2", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, markAdd+" 1", markup.InlineKeyboard[0][0].Text)

	assert.True(t, setToggleState(&markup, "b", false))
	assert.Equal(t, markAdd+" 2", markup.InlineKeyboard[1][0].Text)

	assert.False(t, setToggleState(&markup, "zzz", true))
}

func TestCategoryRows(t *testing.T) {
	rows := categoryRows([]string{"All", "A", "B", "C"}, "A")
	assert.Len(t, rows, 2)
	assert.Equal(t, "● A", rows[0][1].Text)
	assert.Len(t, rows[1], 1)
}
