package service

import (
	"fmt"
	"strings"

	"github.com/mluna/hogarledger/internal/models"
)

// buildExplanation renders a step-by-step walkthrough of how the period's
// settlement was derived, in the order the figures are computed.
func buildExplanation(s *models.MonthlySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Settlement for %02d/%d\n\n", s.Month, s.Year)

	b.WriteString("1. Spending per member\n")
	for _, m := range s.Members {
		fmt.Fprintf(&b, "   %s spent %.2f in total: %.2f shared and %.2f personal.\n",
			m.DisplayName, m.Total, m.Shareable, m.Personal)
	}

	b.WriteString("\n2. Shared pot\n")
	fmt.Fprintf(&b, "   Shared expenses add up to %.2f.", s.TotalShareable)
	if s.TotalPersonal > 0 {
		fmt.Fprintf(&b, " Personal expenses (%.2f) stay out of the split.", s.TotalPersonal)
	}
	b.WriteString("\n")
	if len(s.Members) > 0 {
		fmt.Fprintf(&b, "   Split between %d members, each share is %.2f.\n",
			len(s.Members), s.PerPersonShare)
	}

	b.WriteString("\n3. Balances\n")
	for _, m := range s.Members {
		switch {
		case m.Balance > 0.01:
			fmt.Fprintf(&b, "   %s paid %.2f more than their share.\n", m.DisplayName, m.Balance)
		case m.Balance < -0.01:
			fmt.Fprintf(&b, "   %s paid %.2f less than their share.\n", m.DisplayName, -m.Balance)
		default:
			fmt.Fprintf(&b, "   %s is even.\n", m.DisplayName)
		}
	}

	b.WriteString("\n4. Result\n")
	if s.DebtAmount > 0 {
		fmt.Fprintf(&b, "   %s owes %s a total of %.2f.\n",
			memberName(s, s.DebtorID), memberName(s, s.CreditorID), s.DebtAmount)
	} else {
		b.WriteString("   Everyone is settled, nothing to transfer.\n")
	}

	return b.String()
}

func memberName(s *models.MonthlySummary, userID string) string {
	for _, m := range s.Members {
		if m.UserID == userID {
			return m.DisplayName
		}
	}
	return userID
}
