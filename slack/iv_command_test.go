package ivslack

import (
	"strconv"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"

	"github.com/bcdannyboy/ivsolve/cli"
	"github.com/bcdannyboy/ivsolve/volatility"
)

type fakePoster struct {
	channels []string
}

func (f *fakePoster) PostMessage(channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.channels = append(f.channels, channelID)
	return channelID, "1700000000.000100", nil
}

func newIVHandler(t *testing.T) *IVHandler {
	t.Helper()
	inv, err := volatility.NewInverter(volatility.DefaultConfig())
	require.NoError(t, err)
	return NewIVHandler(inv, 365)
}

func TestParseIVArgs(t *testing.T) {
	req, err := ParseIVArgs("10.45 5.57 100 100 365 5%")
	require.NoError(t, err)
	require.Equal(t, cli.Request{CallPrice: 10.45, PutPrice: 5.57, Spot: 100, Strike: 100, Days: 365, RatePct: 5}, req)

	_, err = ParseIVArgs("10 5 100 100 30")
	require.ErrorIs(t, err, errUsage)
	_, err = ParseIVArgs("10 5 100 100 30 x")
	require.Error(t, err)
	require.NotErrorIs(t, err, errUsage)
}

func TestReply(t *testing.T) {
	h := newIVHandler(t)

	lines := strings.Split(h.Reply("10.4506 5.5735 100 100 365 5"), "\n")
	require.Len(t, lines, 2)
	for i, prefix := range []string{"CE IV: ", "PE IV: "} {
		require.True(t, strings.HasPrefix(lines[i], prefix), lines[i])
		v, err := strconv.ParseFloat(strings.TrimPrefix(lines[i], prefix), 64)
		require.NoError(t, err)
		require.InDelta(t, 0.2, v, 1e-3)
	}

	require.Contains(t, h.Reply("1 2 3"), "Usage: /iv")
	require.Equal(t, cli.InvalidInputMessage, h.Reply("a b c d e f"))
	require.Equal(t, cli.InvalidInputMessage, h.Reply("10 5 100 100 0 5"))
}

func TestHandleCommandPostsToChannel(t *testing.T) {
	p := &fakePoster{}
	require.NoError(t, newIVHandler(t).HandleCommand(slack.SlashCommand{ChannelID: "C123", Text: "1 2 3"}, p))
	require.NoError(t, NewHelpHandler().HandleCommand(slack.SlashCommand{ChannelID: "C456"}, p))
	require.Equal(t, []string{"C123", "C456"}, p.channels)
	require.Contains(t, helpText, "/iv")
}
