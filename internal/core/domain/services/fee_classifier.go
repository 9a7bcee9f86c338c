package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tariff is the fee configuration applied to every delivered order.
type Tariff struct {
	NormalFee      decimal.Decimal
	ExchangeFee    decimal.Decimal
	ExchangeMarker string
	// DisplayTags is ordered by priority; the first tag found wins.
	DisplayTags []string
}

// DefaultTariff returns the standard fees: 20 per parcel, 10 for exchanges.
func DefaultTariff() Tariff {
	return Tariff{
		NormalFee:      decimal.NewFromInt(20),
		ExchangeFee:    decimal.NewFromInt(10),
		ExchangeMarker: "ch",
		DisplayTags:    []string{"big", "k", "12livery", "12livrey", "fast", "oscario", "sand"},
	}
}

// FeeClassifier derives fees and display tags from order tags.
//
// Example:
//
//	classifier := services.NewFeeClassifier(services.DefaultTariff())
//	classifier.DriverFee("VIP, ch")        // 10
//	classifier.PrimaryDisplayTag("Fast, K") // "k"
type FeeClassifier struct {
	tariff Tariff
}

// NewFeeClassifier copies the tariff so later changes to the caller's slice do not leak in.
func NewFeeClassifier(tariff Tariff) FeeClassifier {
	tariff.ExchangeMarker = strings.ToLower(tariff.ExchangeMarker)
	tags := make([]string, 0, len(tariff.DisplayTags))
	for _, tag := range tariff.DisplayTags {
		tags = append(tags, strings.ToLower(tag))
	}
	tariff.DisplayTags = tags
	return FeeClassifier{tariff: tariff}
}

// DriverFee returns the exchange fee when the tags contain the exchange marker
// (case-insensitive), else the normal fee.
func (c FeeClassifier) DriverFee(tags string) decimal.Decimal {
	if c.tariff.ExchangeMarker != "" && strings.Contains(strings.ToLower(tags), c.tariff.ExchangeMarker) {
		return c.tariff.ExchangeFee
	}
	return c.tariff.NormalFee
}

// PrimaryDisplayTag returns the highest-priority display tag contained in tags, or "".
func (c FeeClassifier) PrimaryDisplayTag(tags string) string {
	lower := strings.ToLower(tags)
	for _, tag := range c.tariff.DisplayTags {
		if strings.Contains(lower, tag) {
			return tag
		}
	}
	return ""
}
