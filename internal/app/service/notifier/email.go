package notifier

import (
	"fmt"

	"github.com/gomonto/payments/internal/platform/mailer"
	"github.com/gomonto/payments/internal/queue"
)

// RenderEmail turns a dequeued job into a sendable email. Kept pure so the
// templates are testable without a broker or mail provider.
func RenderEmail(job queue.EmailJob) (mailer.Email, error) {
	switch job.Kind {
	case queue.EmailKindReservationConfirmation:
		return mailer.Email{
			To:      job.To,
			Subject: "Votre réservation GoMonto est garantie",
			HTML: fmt.Sprintf(
				"<h2>Paiement confirmé</h2><p>Votre acompte de <strong>%d %s</strong> a bien été reçu (référence %s).</p><p>Votre location du %s au %s est maintenant garantie.</p>",
				job.AmountMinor, job.Currency, job.Reference, job.StartDate, job.EndDate),
		}, nil
	case queue.EmailKindCreditInvoice:
		return mailer.Email{
			To:      job.To,
			Subject: "Facture : achat de crédits GoMonto",
			HTML: fmt.Sprintf(
				"<h2>Achat confirmé</h2><p>Votre achat de <strong>%d crédits</strong> pour %d %s est confirmé (référence %s).</p>",
				job.Credits, job.AmountMinor, job.Currency, job.Reference),
		}, nil
	default:
		return mailer.Email{}, fmt.Errorf("unknown email kind: %s", job.Kind)
	}
}
