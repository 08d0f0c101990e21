package ivslack

import (
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/ivsolve/volatility"
)

// poster is the part of *socketmode.Client the command handlers use.
type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Handler struct {
	helpHandler *HelpHandler
	ivHandler   *IVHandler
}

func NewHandler(inv *volatility.Inverter, daysPerYear float64) *Handler {
	return &Handler{
		helpHandler: NewHelpHandler(),
		ivHandler:   NewIVHandler(inv, daysPerYear),
	}
}

func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return fmt.Errorf("unexpected slash command payload %T", evt.Data)
	}
	// Slack expects an ack within three seconds, before any reply.
	client.Ack(*evt.Request)

	switch data.Command {
	case "/help":
		return h.helpHandler.HandleCommand(data, client)
	case "/iv":
		return h.ivHandler.HandleCommand(data, client)
	}
	return nil
}
