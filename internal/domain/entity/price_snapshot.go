// internal/domain/entity/price_snapshot.go
package entity

import (
	"time"
)

// PriceSnapshot records the best price a scan cycle found for a subscription
type PriceSnapshot struct {
	ID             string    `bson:"_id,omitempty"`
	SubscriptionID uint      `bson:"subscriptionId"`
	UserID         int64     `bson:"userId"`
	Origin         string    `bson:"origin"`
	Destination    string    `bson:"destination"`
	DepartDate     string    `bson:"departDate"`
	ReturnDate     string    `bson:"returnDate,omitempty"`
	BestPrice      int64     `bson:"bestPrice"`
	OffersSeen     int       `bson:"offersSeen"`
	FoundAt        time.Time `bson:"foundAt"`
}
