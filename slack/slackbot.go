package ivslack

import (
	"context"

	"github.com/golang/glog"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/ivsolve/volatility"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
}

func NewSlackBot(appToken, botToken string, inv *volatility.Inverter, daysPerYear float64) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(client)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(inv, daysPerYear),
	}
}

// Start serves slash commands until ctx is cancelled or the connection fails.
func (sb *SlackBot) Start(ctx context.Context) error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnected:
				glog.Info("connected to Slack")
			case socketmode.EventTypeConnectionError:
				glog.Warningf("slack connection error: %v", evt.Data)
			case socketmode.EventTypeSlashCommand:
				if err := sb.eventHandler.Handle(&evt, sb.socketClient); err != nil {
					glog.Errorf("handling slash command: %v", err)
				}
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
