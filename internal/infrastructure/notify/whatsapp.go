package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/ports"
)

// WhatsAppSender delivers notifications as wa.me links. The link is the
// deliverable: it is logged for the operator-facing channel to surface, the
// same way the agency staff shares project updates today.
type WhatsAppSender struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewWhatsAppSender(users ports.UserRepository, log zerolog.Logger) *WhatsAppSender {
	return &WhatsAppSender{users: users, log: log}
}

// Send builds the wa.me link for the recipient's registered number. Users
// without a number are skipped silently.
func (s *WhatsAppSender) Send(ctx context.Context, userID, message string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("whatsapp notify: %w", err)
	}

	number := digitsOnly(user.WhatsAppNumber)
	if number == "" {
		s.log.Debug().Str("user_id", userID).Msg("no whatsapp number registered, skipping")
		return nil
	}

	link := fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
	s.log.Info().
		Str("user_id", userID).
		Str("link", link).
		Msg("whatsapp notification ready")
	return nil
}

// digitsOnly strips every non-digit so "+52 1 55..." becomes a wa.me number.
func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
