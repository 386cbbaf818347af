package usecase

import (
	"fmt"
	"strings"

	"reservation-bot/internal/data/entity"
)

const (
	msgAskName          = "Sure, what is your full name?"
	msgAskTime          = "Perfect, and what time? (e.g., 16:00 or 4 PM)"
	msgTimeNotParseable = "Sorry, I couldn't understand the time. Please send something like 16:00 or 4 PM."
	msgCanceledAll      = "✅ All reservations under your number have been cancelled."
	msgHelp             = "Hi! Send \"book\" to make a reservation or \"cancel\" to cancel your reservations."
)

func msgAskService(name string, services []string) string {
	if len(services) == 0 {
		return fmt.Sprintf("Thanks, %s. Which service would you like? (e.g., haircut, beard trim)", name)
	}
	return fmt.Sprintf("Thanks, %s. Which service would you like? We offer: %s", name, strings.Join(services, ", "))
}

func msgAskDate(service string) string {
	return fmt.Sprintf("Great, %s. What date would you like? (e.g., 20 Nov or 2025-11-20)", service)
}

func msgSlotTaken(date, hhmm string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("❌ Sorry, %s on %s is already taken, and I couldn't find other free slots. "+
			"Please send another time or date.", hhmm, date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❌ Sorry, %s on %s is already taken.\n\nAvailable nearby times:\n", hhmm, date)
	for _, s := range suggestions {
		fmt.Fprintf(&b, "• %s\n", s)
	}
	b.WriteString("\nPlease choose one of these times.")
	return b.String()
}

func msgBookingConfirmed(r *entity.Reservation, info entity.ServiceInfo) string {
	return fmt.Sprintf("✅ Reservation confirmed!\n\n"+
		"📌 *Service:* %s\n"+
		"💵 *Price:* $%.2f\n"+
		"⏱ *Duration:* %d minutes\n"+
		"📅 *Date:* %s\n"+
		"⏰ *Time:* %s\n\n"+
		"Thank you, %s!",
		r.Service, info.Price, info.DurationMin, r.Date, r.Time, r.CustomerName)
}

// msgOperatorConfirmed is sent when staff confirms a pending reservation.
func msgOperatorConfirmed(r *entity.Reservation) string {
	return fmt.Sprintf("✅ Your reservation is confirmed!\n"+
		"Name: %s\nService: %s\nDate: %s\nTime: %s\n\n"+
		"Thank you for booking with us 🤍",
		r.CustomerName, r.Service, r.Date, r.Time)
}

func msgOperatorCanceled(r *entity.Reservation) string {
	return fmt.Sprintf("❌ Your reservation has been canceled.\n"+
		"Name: %s\nService: %s\nDate: %s\nTime: %s\n\n"+
		"If this is a mistake, please contact us to reschedule.",
		r.CustomerName, r.Service, r.Date, r.Time)
}

func calendarSummary(r *entity.Reservation) string {
	return fmt.Sprintf("%s - %s", r.Service, r.CustomerName)
}

func calendarDescription(r *entity.Reservation, info entity.ServiceInfo) string {
	return fmt.Sprintf("From: %s\nService: %s\nPrice: %.2f\nDuration: %d min\nWhen: %s %s",
		r.CustomerPhone, r.Service, info.Price, info.DurationMin, r.Date, r.Time)
}
