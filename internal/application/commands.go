package application

import "github.com/bnema/frontdesk/internal/domain"

type CheckoutCommand struct {
	Banner     domain.BannerID
	ClientName string
	Station    string
	Equipment  []string
}

type CheckoutOutcome string

const (
	CheckoutStarted    CheckoutOutcome = "started"
	CheckoutWaitlisted CheckoutOutcome = "waitlisted"
)

type CheckoutResult struct {
	Outcome CheckoutOutcome
	Session *SessionStatus
	Entry   *EntryStatus
	// Replaced is set when an earlier waitlist entry for the same banner was
	// dropped by this checkout.
	Replaced bool
}
