// Package notify builds the alert texts sent to advertisers and drivers and
// dispatches them through an SMS gateway.
package notify

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"flowAdsBack/internal/models"
)

// Milestones are the view counts that trigger a milestone alert.
var Milestones = []int64{1000, 5000, 10000, 25000, 50000, 100000}

const urgentExpiryDays = 7

var printer = message.NewPrinter(language.English)

// groupThousands renders n with comma separators, e.g. 25000 -> 25,000.
func groupThousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// ViewershipMilestone describes a campaign's view progress. A positive
// target that has been reached wins over milestones.
func ViewershipMilestone(campaign string, views, target int64) string {
	if target > 0 && views >= target {
		return fmt.Sprintf("Congratulations! Your '%s' campaign has reached its target of %s views. Current views: %s.",
			campaign, groupThousands(target), groupThousands(views))
	}
	var reached int64
	for _, m := range Milestones {
		if views >= m {
			reached = m
		}
	}
	if reached > 0 {
		return fmt.Sprintf("Milestone alert! Your '%s' campaign has reached %s views. Keep up the good work!",
			campaign, groupThousands(reached))
	}
	return fmt.Sprintf("Update: Your '%s' campaign has %s views so far.", campaign, groupThousands(views))
}

// LocationTargetReached tells an advertiser an area is performing well.
func LocationTargetReached(area, targetType string) string {
	if targetType == "" {
		targetType = "views"
	}
	return fmt.Sprintf("Location alert: %s has reached high %s engagement. Consider boosting your ad display in this area for maximum impact.",
		area, targetType)
}

// DriverEarnings reports a driver's earnings for a period.
func DriverEarnings(name string, amount decimal.Decimal, period string) string {
	if period == "" {
		period = "today"
	}
	return fmt.Sprintf("Hi %s, you've earned ₹%s %s! Check your Flow Ads Cab driver app for details.", name, amount, period)
}

// DocumentExpiry warns a driver about an expiring document.
func DocumentExpiry(name, document string, daysRemaining int) string {
	urgency := ""
	if daysRemaining <= urgentExpiryDays {
		urgency = "Urgent: "
	}
	return fmt.Sprintf("%sHi %s, your %s will expire in %d days. Please renew it soon to continue using Flow Ads Cab services.",
		urgency, name, document, daysRemaining)
}

// PaymentConfirmation acknowledges a payment.
func PaymentConfirmation(name string, amount decimal.Decimal, purpose string) string {
	if purpose != "" {
		return fmt.Sprintf("Payment confirmed: ₹%s for %s. Thank you, %s! Receipt available in your Flow Ads Cab account.", amount, purpose, name)
	}
	return fmt.Sprintf("Payment confirmed: ₹%s. Thank you, %s! Receipt available in your Flow Ads Cab account.", amount, name)
}

// CampaignStatus announces a campaign status change. Scheduled campaigns
// without a start date fall through to the generic text.
func CampaignStatus(campaign, status, startDate string) string {
	switch {
	case status == models.CampaignActive:
		return fmt.Sprintf("Your campaign '%s' is now active and being displayed on Flow Ads Cab taxis!", campaign)
	case status == models.CampaignPaused:
		return fmt.Sprintf("Your campaign '%s' has been paused. You can resume it anytime from your Flow Ads Cab dashboard.", campaign)
	case status == models.CampaignScheduled && startDate != "":
		return fmt.Sprintf("Your campaign '%s' is scheduled to start on %s. We'll notify you when it goes live.", campaign, startDate)
	case status == models.CampaignCompleted:
		return fmt.Sprintf("Your campaign '%s' has completed its scheduled run. View the full performance report on your dashboard.", campaign)
	default:
		return fmt.Sprintf("Status update: Your campaign '%s' status is now '%s'.", campaign, status)
	}
}

// CrossedMilestone reports the highest milestone passed when views grow
// from before to after.
func CrossedMilestone(before, after int64) (int64, bool) {
	var crossed int64
	for _, m := range Milestones {
		if before < m && after >= m {
			crossed = m
		}
	}
	return crossed, crossed > 0
}
