package delivery

import (
	"strings"

	"github.com/Abubakarusba/scorelaship-bot/internal/catalog"
	"github.com/Abubakarusba/scorelaship-bot/pkg/tghtml"
)

// DefaultFooter is appended to every rendered message unless the config
// overrides it.
const DefaultFooter = "🌐Share to your friends\n\nJoin our community: https://chat.whatsapp.com/LwPfFoi2T2O6oXuRXpoZfd?mode=wwt"

// Render builds the Telegram HTML message for an opportunity: the title line,
// then each optional labeled line only when its field is non-empty, then the
// footer. All user-supplied text is escaped so reserved characters in a cell
// can never break the markup.
func Render(o catalog.Opportunity, footer string) string {
	parts := []tghtml.H{
		tghtml.Raw("🎓 " + tghtml.B(o.Title).String()),
		labeledLine("📌", "Benefit:", o.Benefit),
		labeledLine("📌", "Criteria:", o.Criteria),
		labeledLine("📌", "Requirement:", o.Requirement),
		labeledLine("⏳", "Deadline:", o.DeadlineRaw),
	}
	if strings.TrimSpace(o.Link) != "" {
		parts = append(parts, tghtml.Raw("\n🔗 Apply here: "+tghtml.Esc(o.Link).String()))
	}
	body := tghtml.JoinH("\n", parts...)

	if strings.TrimSpace(footer) == "" {
		footer = DefaultFooter
	}
	return body.String() + "\n\n" + tghtml.Esc(footer).String()
}

func labeledLine(emoji, label, value string) tghtml.H {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return tghtml.Raw(emoji + " " + tghtml.B(label).String() + " " + tghtml.Esc(value).String())
}
