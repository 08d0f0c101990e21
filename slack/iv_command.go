package ivslack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/bcdannyboy/ivsolve/cli"
	"github.com/bcdannyboy/ivsolve/models"
	"github.com/bcdannyboy/ivsolve/volatility"
)

const ivUsage = "/iv <ce price> <pe price> <spot> <strike> <days to expiry> <rate %> - Implied volatility of a CE/PE pair"

var errUsage = errors.New("usage: " + ivUsage)

type IVHandler struct {
	inv         *volatility.Inverter
	daysPerYear float64
}

func NewIVHandler(inv *volatility.Inverter, daysPerYear float64) *IVHandler {
	return &IVHandler{inv: inv, daysPerYear: daysPerYear}
}

func (h *IVHandler) HandleCommand(data slack.SlashCommand, client poster) error {
	_, _, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(h.Reply(data.Text), false))
	return err
}

// Reply builds the response text for the arguments of an /iv command.
func (h *IVHandler) Reply(text string) string {
	req, err := ParseIVArgs(text)
	if errors.Is(err, errUsage) {
		return "Invalid number of arguments. Usage: " + ivUsage
	}
	if err != nil {
		return cli.InvalidInputMessage
	}

	resp, err := cli.Solve(h.inv, req, h.daysPerYear)
	if errors.Is(err, models.ErrInvalidParameter) {
		return cli.InvalidInputMessage
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return strings.TrimSuffix(cli.FormatResponse(resp), "\n")
}

func ParseIVArgs(text string) (cli.Request, error) {
	args := strings.Fields(text)
	if len(args) != 6 {
		return cli.Request{}, errUsage
	}
	var vals [6]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return cli.Request{}, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return cli.Request{
		CallPrice: vals[0],
		PutPrice:  vals[1],
		Spot:      vals[2],
		Strike:    vals[3],
		Days:      vals[4],
		RatePct:   vals[5],
	}, nil
}
