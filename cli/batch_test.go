package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/ivsolve/models"
)

const sampleCSV = `type,price,spot,strike,days,rate
call,10.4506,100,100,365,5
put,5.5735,100,100,365,5
CE,2.5,100,105,30,6.5
straddle,4,100,100,30,5
`

func TestReadQuotes(t *testing.T) {
	quotes, err := ReadQuotes(strings.NewReader(sampleCSV), 365)
	require.NoError(t, err)
	require.Len(t, quotes, 4)

	require.Equal(t, models.Call, quotes[0].Type)
	require.Equal(t, 1.0, quotes[0].Expiry)
	require.InDelta(t, 0.05, quotes[0].Rate, 1e-15)
	require.Equal(t, models.Put, quotes[1].Type)
	require.Equal(t, models.Call, quotes[2].Type)
	require.InDelta(t, 30.0/365, quotes[2].Expiry, 1e-15)
	require.Equal(t, models.OptionType("straddle"), quotes[3].Type)
}

func TestReadQuotesErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":      "",
		"bad header": "kind,price,spot,strike,days,rate\n",
		"bad number": "type,price,spot,strike,days,rate\ncall,x,100,100,30,5\n",
		"short row":  "type,price,spot,strike,days,rate\ncall,1,100,100\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadQuotes(strings.NewReader(input), 365)
			require.Error(t, err)
		})
	}
}

func TestRunBatchText(t *testing.T) {
	var out, progress bytes.Buffer
	err := RunBatch(context.Background(), strings.NewReader(sampleCSV), &out, newInverter(t), BatchOptions{
		DaysPerYear: 365,
		Workers:     2,
		Progress:    &progress,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.InDelta(t, 0.2, ivLine(t, lines[0], "1 call IV: "), 1e-3)
	require.InDelta(t, 0.2, ivLine(t, lines[1], "2 put IV: "), 1e-3)
	require.Greater(t, ivLine(t, lines[2], "3 call IV: "), 0.01)
	require.Contains(t, lines[3], "4 straddle error: option type must be 'put' or 'call'")
}

func TestRunBatchJSON(t *testing.T) {
	var out bytes.Buffer
	err := RunBatch(context.Background(), strings.NewReader(sampleCSV), &out, newInverter(t), BatchOptions{
		DaysPerYear: 365,
		Workers:     3,
		JSON:        true,
	})
	require.NoError(t, err)

	var rows []batchRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 4)
	for i, row := range rows {
		require.Equal(t, i+1, row.Row)
	}
	require.InDelta(t, 0.2, rows[0].Result.Sigma, 1e-3)
	require.InDelta(t, 0.2, rows[1].Result.Sigma, 1e-3)
	require.Empty(t, rows[2].Error)
	require.NotEmpty(t, rows[3].Error)
}

func TestRunBatchEmptyFile(t *testing.T) {
	var out, progress bytes.Buffer
	err := RunBatch(context.Background(), strings.NewReader("type,price,spot,strike,days,rate\n"), &out, newInverter(t), BatchOptions{
		DaysPerYear: 365,
		Workers:     1,
		Progress:    &progress,
	})
	require.NoError(t, err)
	require.Empty(t, out.String())
}
