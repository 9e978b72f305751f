package command

import (
	"github.com/pixil98/go-stash/internal/messaging"
)

type MessagesConfig struct {
	// Rejections overrides the rejection message template for a reason.
	Rejections map[string]string `json:"rejections"`
}

func (c *MessagesConfig) validate() error {
	_, err := messaging.ParseRejectionTemplates(c.Rejections)
	return err
}
