package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/models"
)

// Callback data is "<action>:<argument>".
const (
	actionToggle   = "wl"
	actionRemove   = "rm"
	actionPlay     = "play"
	actionAsk      = "ask"
	actionCategory = "cat"
	actionSort     = "sort"
)

const (
	markAdd       = "➕"
	markInList    = "✅"
	markRemove    = "🗑"
	markPlay      = "▶"
	categoriesRow = 3
)

const helpText = `Available commands:
/start - Start a new conversation
/help - Show this help message
/agent - Back to the AI Agent
/home - Recommended videos
/trending - Trending now
/explore - Explore all videos
/watchlist - Your Watch Later list
/categories - List categories
/category <name> - Filter by category
/sort <views|date|duration> - Change the sort order
/add <id> - Add or remove a video from the watchlist
/remove <id> - Remove a video from the watchlist
/play <id> - Play a video
/reset - Forget this conversation

Or just ask me, e.g. "find cooking videos" or "what's trending?"`

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func toggleNotice(v models.Video, added bool) string {
	if added {
		return "Added to watchlist: " + v.Title
	}
	return "Removed from watchlist: " + v.Title
}

func playNotice(v models.Video) string {
	return fmt.Sprintf("▶ Now playing: %s (%s)\n%s", v.Title, v.Duration, watchURL(v.ID))
}

// renderView turns a view into MarkdownV2 text and its inline keyboard.
func renderView(view *agent.View) (string, tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	if view.Title != "" {
		fmt.Fprintf(&b, "*%s*\n", escapeMarkdown(view.Title))
	}
	if view.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n", escapeMarkdown(view.Subtitle))
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	if view.Text != "" {
		b.WriteString(escapeMarkdown(view.Text))
		b.WriteString("\n")
	}

	for i, v := range view.Videos {
		b.WriteString("\n")
		b.WriteString(formatVideo(i+1, v))
	}

	if len(view.Capabilities) > 0 {
		b.WriteString("\n")
		for _, capability := range view.Capabilities {
			fmt.Fprintf(&b, "%s *%s* \\- %s\n",
				capability.Icon, escapeMarkdown(capability.Title), escapeMarkdown(capability.Description))
		}
	}
	if len(view.Suggestions) > 0 {
		b.WriteString("\n💡 *Try asking:*\n")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	rows = append(rows, videoRows(view)...)
	rows = append(rows, suggestionRows(view.Suggestions)...)
	if view.SortBy != "" {
		rows = append(rows, sortRow(view.SortBy))
	}
	rows = append(rows, categoryRows(view.Categories, view.Category)...)

	return strings.TrimRight(b.String(), "\n"), tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func formatVideo(n int, v models.Video) string {
	return fmt.Sprintf("*%d\\. %s*\n%s · %s views · %s · ⏱ %s\n\\#%s `%s`\n",
		n,
		escapeMarkdown(v.Title),
		escapeMarkdown(v.ChannelName),
		escapeMarkdown(v.ViewCount),
		escapeMarkdown(v.PublishedAt),
		escapeMarkdown(v.Duration),
		escapeMarkdown(strings.ReplaceAll(v.Category, " ", "_")),
		escapeCode(v.ID))
}

func videoRows(view *agent.View) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Videos))
	for i, v := range view.Videos {
		n := strconv.Itoa(i + 1)
		var first tgbotapi.InlineKeyboardButton
		if view.Tab == models.TabWatchlist {
			first = tgbotapi.NewInlineKeyboardButtonData(markRemove+" "+n, actionRemove+":"+v.ID)
		} else {
			mark := markAdd
			if view.InWatchlist(v.ID) {
				mark = markInList
			}
			first = tgbotapi.NewInlineKeyboardButtonData(mark+" "+n, actionToggle+":"+v.ID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			first,
			tgbotapi.NewInlineKeyboardButtonData(markPlay+" "+n, actionPlay+":"+v.ID),
		))
	}
	return rows
}

func suggestionRows(suggestions []string) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suggestions))
	for i, q := range suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(q, actionAsk+":"+strconv.Itoa(i)),
		))
	}
	return rows
}

func sortRow(active models.SortKey) []tgbotapi.InlineKeyboardButton {
	keys := []models.SortKey{models.SortByViews, models.SortByDate, models.SortByDuration}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(keys))
	for _, key := range keys {
		label := agent.SortLabel(key)
		if key == active {
			label = "● " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, actionSort+":"+string(key)))
	}
	return row
}

func categoryRows(categories []string, active string) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, name := range categories {
		label := name
		if name == active {
			label = "● " + name
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, actionCategory+":"+name))
		if len(row) == categoriesRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// setToggleState flips the watchlist mark of the button for videoID.
// It reports whether a button was found.
func setToggleState(markup *tgbotapi.InlineKeyboardMarkup, videoID string, inList bool) bool {
	data := actionToggle + ":" + videoID
	found := false
	for _, row := range markup.InlineKeyboard {
		for i := range row {
			btn := &row[i]
			if btn.CallbackData == nil || *btn.CallbackData != data {
				continue
			}
			_, n, _ := strings.Cut(btn.Text, " ")
			mark := markAdd
			if inList {
				mark = markInList
			}
			btn.Text = mark + " " + n
			found = true
		}
	}
	return found
}

var markdownSpecials = []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	escaped := text
	for _, char := range markdownSpecials {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

// Inside `code` only the backtick and backslash need escaping.
func escapeCode(text string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(text)
}
