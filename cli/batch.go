package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/ivsolve/models"
	"github.com/bcdannyboy/ivsolve/volatility"
)

var batchHeader = []string{"type", "price", "spot", "strike", "days", "rate"}

// ReadQuotes parses CSV rows of type,price,spot,strike,days,rate (rate in
// percent) into model-unit quotes. An unknown type is kept as-is so that
// the solver reports it against that row alone; a malformed number fails
// the whole file.
func ReadQuotes(r io.Reader, daysPerYear float64) ([]volatility.Quote, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(batchHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), batchHeader[i]) {
			return nil, fmt.Errorf("unexpected header %q, want %s", strings.Join(header, ","), strings.Join(batchHeader, ","))
		}
	}

	var quotes []volatility.Quote
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		optType, err := models.ParseOptionType(rec[0])
		if err != nil {
			optType = models.OptionType(strings.TrimSpace(rec[0]))
		}
		var vals [5]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64); err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, batchHeader[i+1], err)
			}
		}
		quotes = append(quotes, volatility.Quote{
			Type:   optType,
			Price:  vals[0],
			Spot:   vals[1],
			Strike: vals[2],
			Expiry: vals[3] / daysPerYear,
			Rate:   vals[4] / 100,
		})
	}
	return quotes, nil
}

type batchRow struct {
	Row    int               `json:"row"`
	Quote  volatility.Quote  `json:"quote"`
	Result volatility.Result `json:"result"`
	Error  string            `json:"error,omitempty"`
}

func WriteBatch(w io.Writer, results []volatility.BatchResult, asJSON bool) error {
	if asJSON {
		rows := make([]batchRow, len(results))
		for i, res := range results {
			rows[i] = batchRow{Row: i + 1, Quote: res.Quote, Result: res.Result}
			if res.Err != nil {
				rows[i].Error = res.Err.Error()
			}
		}
		b, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	for i, res := range results {
		var err error
		switch {
		case res.Err != nil:
			_, err = fmt.Fprintf(w, "%d %s error: %v\n", i+1, res.Quote.Type, res.Err)
		case !res.Result.Converged:
			_, err = fmt.Fprintf(w, "%d %s IV: %v (not converged)\n", i+1, res.Quote.Type, res.Result.Sigma)
		default:
			_, err = fmt.Fprintf(w, "%d %s IV: %v\n", i+1, res.Quote.Type, res.Result.Sigma)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type BatchOptions struct {
	DaysPerYear float64
	Workers     int
	JSON        bool
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

// RunBatch solves every row of in and writes the results to out in input order.
func RunBatch(ctx context.Context, in io.Reader, out io.Writer, inv *volatility.Inverter, opts BatchOptions) error {
	quotes, err := ReadQuotes(in, opts.DaysPerYear)
	if err != nil {
		return err
	}
	glog.Infof("solving %d quotes with %d workers", len(quotes), opts.Workers)

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	batchOpts := volatility.BatchOptions{Workers: opts.Workers}
	if opts.Progress != nil && len(quotes) > 0 {
		p = mpb.NewWithContext(ctx, mpb.WithWidth(64), mpb.WithOutput(opts.Progress))
		bar = p.AddBar(int64(len(quotes)),
			mpb.PrependDecorators(
				decor.Name("Progress"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
		batchOpts.Progress = bar
	}

	start := time.Now()
	results, err := inv.SolveBatch(ctx, quotes, batchOpts)
	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			glog.V(1).Infof("%s quote failed: %v", res.Quote.Type, res.Err)
		}
	}
	glog.Infof("solved %d quotes in %v, %d failed", len(results), time.Since(start), failed)

	return WriteBatch(out, results, opts.JSON)
}
