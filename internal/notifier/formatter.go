package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockView/internal/model"
)

func direction(flag int) string {
	if flag > 0 {
		return "Bullish"
	}
	return "Bearish"
}

func marker(flag int) string {
	if flag > 0 {
		return "🟢"
	}
	return "🔴"
}

// FormatPatternAlert formats one engulfing alert for Telegram (HTML mode).
func FormatPatternAlert(symbol string, bar model.OHLCV, flag int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s engulfing</b> | %s\n\n", marker(flag), direction(flag), html.EscapeString(symbol)))
	b.WriteString(fmt.Sprintf("Bar: %s\n", bar.Time.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("O-%.2f H-%.2f L-%.2f C-%.2f\n", bar.Open, bar.High, bar.Low, bar.Close))
	change := 0.0
	if bar.Open != 0 {
		change = (bar.Close - bar.Open) / bar.Open * 100
	}
	b.WriteString(fmt.Sprintf("Body: %+.2f%%\n", change))
	return b.String()
}

// FormatWatchlist lists the scanned symbols.
func FormatWatchlist(symbols []string) string {
	if len(symbols) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Watchlist</b>\n\n")
	for _, s := range symbols {
		b.WriteString("• " + html.EscapeString(s) + "\n")
	}
	return b.String()
}

// FormatReadout formats the latest bar of a symbol.
func FormatReadout(symbol string, bar model.OHLCV, flag int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n", html.EscapeString(symbol), bar.Time.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("O-%.2f H-%.2f L-%.2f C-%.2f\n", bar.Open, bar.High, bar.Low, bar.Close))
	if flag != 0 {
		b.WriteString(fmt.Sprintf("Engulfing: %s (%d)\n", direction(flag), flag))
	}
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Commands:\n• /scan - run the engulfing scan now\n• /watchlist - show scanned symbols\n• /last TICKER - latest daily bar"
}
