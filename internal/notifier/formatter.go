package notifier

import (
	"fmt"
	"strings"
	"time"

	"CropCompass/internal/model"
)

// FormatTickerDigest formats ticker entries into a Telegram digest message.
func FormatTickerDigest(entries []model.TickerEntry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🌾 <b>Mandi Price Digest</b> | %s\n\n", time.Now().Format("2006-01-02")))

	if len(entries) == 0 {
		b.WriteString("No price data available today.\n")
		return b.String()
	}

	for _, e := range entries {
		arrow := "▲"
		if e.ChangePct < 0 {
			arrow = "▼"
		}
		b.WriteString(fmt.Sprintf("%s: ₹%.2f/kg %s %+.2f%% (%d records)\n",
			e.CropName, e.PricePerKg, arrow, e.ChangePct, e.RecordCount))
	}

	return b.String()
}
