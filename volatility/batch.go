package volatility

import (
	"context"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"

	"github.com/bcdannyboy/ivsolve/models"
)

const jobBatchSize = 1000

// Quote is one observed premium to invert. Expiry is in years and Rate is a
// decimal.
type Quote struct {
	Type   models.OptionType `json:"type"`
	Price  float64           `json:"price"`
	Spot   float64           `json:"spot"`
	Strike float64           `json:"strike"`
	Expiry float64           `json:"expiry"`
	Rate   float64           `json:"rate"`
}

type BatchResult struct {
	Quote  Quote
	Result Result
	Err    error
}

// Progress is notified once per solved quote. *mpb.Bar satisfies it.
type Progress interface {
	Increment()
}

type BatchOptions struct {
	Workers  int      // defaults to DefaultWorkers()
	Progress Progress // optional
}

// DefaultWorkers is the number of logical CPUs.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

type job struct {
	index int
	quote Quote
}

// SolveBatch inverts every quote on a pool of workers. Results are in input
// order and a failing quote only sets its own Err. If ctx is cancelled,
// quotes not yet started are left unsolved and ctx.Err() is returned.
func (inv *Inverter) SolveBatch(ctx context.Context, quotes []Quote, opts BatchOptions) ([]BatchResult, error) {
	results := make([]BatchResult, len(quotes))
	if len(quotes) == 0 {
		return results, nil
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}
	if numWorkers > len(quotes) {
		numWorkers = len(quotes)
	}

	jobChan := make(chan job, min(jobBatchSize, len(quotes)))
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go inv.worker(jobChan, results, &wg, opts.Progress)
	}

	var err error
feed:
	for i, q := range quotes {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobChan <- job{index: i, quote: q}:
		}
	}
	close(jobChan)
	wg.Wait()

	return results, err
}

func (inv *Inverter) worker(jobs <-chan job, results []BatchResult, wg *sync.WaitGroup, progress Progress) {
	defer wg.Done()
	for j := range jobs {
		q := j.quote
		res, err := inv.Solve(q.Price, q.Spot, q.Strike, q.Expiry, q.Rate, q.Type)
		results[j.index] = BatchResult{Quote: q, Result: res, Err: err}
		if progress != nil {
			progress.Increment()
		}
	}
}
