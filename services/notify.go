package services

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
)

const notifyTimeout = 15 * time.Second

var contactEmail = template.Must(template.New("contact").Parse(
	`<h2>New message from {{.Name}}</h2>
<p><strong>Email:</strong> {{.Email}}</p>
<p>{{.Message}}</p>
`))

type SettingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type ProfileReader interface {
	Get(ctx context.Context) (*models.Profile, error)
}

// ContactNotifier emails the site owner about new contact messages in the background.
type ContactNotifier struct {
	sender   EmailSender
	settings SettingsReader
	profile  ProfileReader
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

func NewContactNotifier(sender EmailSender, settings SettingsReader, profile ProfileReader, logger zerolog.Logger) *ContactNotifier {
	return &ContactNotifier{sender: sender, settings: settings, profile: profile, logger: logger}
}

// Notify returns immediately. Failures are logged and never reach the submitter.
func (n *ContactNotifier) Notify(contact models.Contact) {
	if n == nil || n.sender == nil {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := n.send(ctx, contact); err != nil {
			n.logger.Error().Err(err).Str("contactId", contact.ID).Msg("Failed to send contact notification")
		}
	}()
}

// Wait blocks until every pending notification has finished.
func (n *ContactNotifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func (n *ContactNotifier) send(ctx context.Context, contact models.Contact) error {
	settings, err := n.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.EmailNotifications {
		return nil
	}

	profile, err := n.profile.Get(ctx)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := contactEmail.Execute(&body, contact); err != nil {
		return err
	}
	return n.sender.SendEmail(ctx, "New contact message from "+contact.Name, body.String(), []string{profile.Email})
}
