package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/cinecampaign/internal/models"
	"github.com/Vovarama1992/cinecampaign/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notifier turns campaign events into plain-text emails. Send failures are
// logged and never bubble up into the request that caused them.
type Notifier struct {
	mailer     ports.Mailer
	users      ports.UserRepository
	adminEmail string
	log        *logger.ZapLogger
	printer    *message.Printer
}

func NewNotifier(mailer ports.Mailer, users ports.UserRepository, adminEmail string, log *logger.ZapLogger) *Notifier {
	return &Notifier{
		mailer:     mailer,
		users:      users,
		adminEmail: adminEmail,
		log:        log,
		printer:    message.NewPrinter(language.English),
	}
}

// Money formats an amount with thousands separators, e.g. $125,000.00.
// Dollars and cents are split as integers so large amounts stay exact.
func (n *Notifier) Money(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	dollars := d.Truncate(0)
	cents := d.Sub(dollars).Shift(2).IntPart()
	return n.printer.Sprintf("%s$%d.%02d", sign, dollars.IntPart(), cents)
}

func (n *Notifier) CampaignSubmitted(ctx context.Context, c *models.Campaign, level string) {
	if n.adminEmail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Campaign %q was submitted for review.\n\n", c.Name)
	fmt.Fprintf(&b, "Flight: %s - %s\n", c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Media budget: %s\n", n.Money(c.MediaBudget))
	fmt.Fprintf(&b, "Conflict level: %s\n", level)

	n.send(ctx, ports.Email{
		To:      []string{n.adminEmail},
		Subject: "New campaign for review: " + c.Name,
		Text:    b.String(),
	})
}

func (n *Notifier) StatusChanged(ctx context.Context, c *models.Campaign, from, to models.CampaignStatus, note string) {
	addr := n.distributorEmail(ctx, c)
	if addr == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The status of campaign %q changed from %s to %s.\n", c.Name, from, to)
	if note != "" {
		fmt.Fprintf(&b, "\nNote from the team:\n%s\n", note)
	}

	n.send(ctx, ports.Email{
		To:      []string{addr},
		Subject: fmt.Sprintf("Campaign %s: %s", c.Name, to),
		Text:    b.String(),
	})
}

func (n *Notifier) CampaignPriced(ctx context.Context, c *models.Campaign, price decimal.Decimal) {
	to := n.distributorEmail(ctx, c)
	if to == "" {
		return
	}

	n.send(ctx, ports.Email{
		To:      []string{to},
		Subject: "Pricing ready: " + c.Name,
		Text: fmt.Sprintf("Your campaign %q has been priced at %s (media budget %s).\n",
			c.Name, n.Money(price), n.Money(c.MediaBudget)),
	})
}

func (n *Notifier) AdminMessage(ctx context.Context, c *models.Campaign, body string) {
	to := n.distributorEmail(ctx, c)
	if to == "" {
		return
	}

	n.send(ctx, ports.Email{
		To:      []string{to},
		Subject: "New message about " + c.Name,
		Text:    body,
	})
}

func (n *Notifier) distributorEmail(ctx context.Context, c *models.Campaign) string {
	d, err := n.users.GetDistributor(ctx, c.DistributorID)
	if err != nil || d == nil {
		n.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "distributor lookup for email failed",
			Fields:  map[string]any{"campaignID": c.ID.String()},
			Error:   err,
		})
		return ""
	}
	return d.ContactEmail
}

func (n *Notifier) send(ctx context.Context, e ports.Email) {
	if err := n.mailer.Send(ctx, e); err != nil {
		n.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "email send failed",
			Fields:  map[string]any{"subject": e.Subject},
			Error:   err,
		})
	}
}
