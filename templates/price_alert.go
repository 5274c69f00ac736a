package templates

import (
	"fmt"
	"strings"

	"farewatch-service/internal/domain/entity"
)

const priceAlertTemplate = "\U0001F514 <b>Price drop! (±%d days)</b>\n" +
	"✈️ %s → %s\n" +
	"\U0001F4C5 %s\n" +
	"\U0001F3E2 %s\n\n" +
	"\U0001F4B0 <b>%d %s</b>\n" +
	"\U0001F3AF Target: %d %s"

// RoundTripAlert formats a price drop notification for a round trip watch
func RoundTripAlert(offer entity.RoundTripOffer, carrier string, flexDays int, threshold int64, currency string) string {
	dates := fmt.Sprintf("%s ⇄ %s",
		offer.Outbound.DepartureDate().Format(entity.DateLayout),
		offer.Inbound.DepartureDate().Format(entity.DateLayout))
	return fmt.Sprintf(priceAlertTemplate,
		flexDays,
		offer.Outbound.Origin, offer.Outbound.Destination,
		dates,
		carrier,
		offer.TotalPrice, strings.ToUpper(currency),
		threshold, strings.ToUpper(currency))
}

// OneWayAlert formats a price drop notification for a one-way watch
func OneWayAlert(offer entity.FareOffer, total int64, carrier string, flexDays int, threshold int64, currency string) string {
	return fmt.Sprintf(priceAlertTemplate,
		flexDays,
		offer.Origin, offer.Destination,
		offer.DepartureDate().Format(entity.DateLayout),
		carrier,
		total, strings.ToUpper(currency),
		threshold, strings.ToUpper(currency))
}
