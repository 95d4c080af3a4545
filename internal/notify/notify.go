// Package notify shows desktop notifications.
package notify

import (
	"fyne.io/fyne/v2"
	"go.uber.org/zap"

	"github.com/Alexander-D-Karpov/tracklist/internal/logger"
)

type Service struct {
	app   fyne.App
	title string
	log   *zap.Logger
}

func New(app fyne.App, title string, log *zap.Logger) *Service {
	return &Service{app: app, title: title, log: logger.OrNop(log).Named("notify")}
}

// Send shows text as a notification. It may be called from any goroutine.
func (s *Service) Send(text string) {
	if s == nil || s.app == nil {
		return
	}
	s.log.Debug("notification", zap.String("text", text))
	fyne.Do(func() {
		s.app.SendNotification(fyne.NewNotification(s.title, text))
	})
}
