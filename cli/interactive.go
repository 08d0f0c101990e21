// Package cli is the terminal front end: it collects quotes, converts them
// to model units and prints implied volatilities.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/ivsolve/models"
	"github.com/bcdannyboy/ivsolve/volatility"
)

// InvalidInputMessage is printed instead of an error trace for bad numbers.
const InvalidInputMessage = "Please enter valid numerical values."

var errInvalidInput = errors.New("invalid numerical input")

// Request is a CE/PE pair as typed by a user: expiry in days and the
// risk-free rate in percent.
type Request struct {
	CallPrice float64 `json:"ce_price"`
	PutPrice  float64 `json:"pe_price"`
	Spot      float64 `json:"spot"`
	Strike    float64 `json:"strike"`
	Days      float64 `json:"days"`
	RatePct   float64 `json:"rate_pct"`
}

// Leg is the solution for one side, with Greeks evaluated at the solved sigma.
type Leg struct {
	volatility.Result
	Greeks models.BSMResult `json:"greeks"`
}

type Response struct {
	Request Request `json:"request"`
	Call    Leg     `json:"ce"`
	Put     Leg     `json:"pe"`
}

var prompts = []string{
	"Enter the CE price: ",
	"Enter the PE price: ",
	"Enter the spot price: ",
	"Enter the strike price: ",
	"Enter the time to expire (in days): ",
	"Enter the risk-free rate (in percentage): ",
}

// ReadRequest prompts on w for each value and reads one line per value from r.
func ReadRequest(r io.Reader, w io.Writer) (Request, error) {
	scanner := bufio.NewScanner(r)
	vals := make([]float64, len(prompts))
	for i, p := range prompts {
		fmt.Fprint(w, p)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Request{}, err
			}
			return Request{}, io.ErrUnexpectedEOF
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", errInvalidInput, err)
		}
		vals[i] = v
	}
	return Request{
		CallPrice: vals[0],
		PutPrice:  vals[1],
		Spot:      vals[2],
		Strike:    vals[3],
		Days:      vals[4],
		RatePct:   vals[5],
	}, nil
}

// Solve inverts both legs of req. Days are converted with daysPerYear.
func Solve(inv *volatility.Inverter, req Request, daysPerYear float64) (Response, error) {
	T := req.Days / daysPerYear
	r := req.RatePct / 100

	resp := Response{Request: req}
	var err error
	if resp.Call, err = solveLeg(inv, models.Call, req.CallPrice, req.Spot, req.Strike, T, r); err != nil {
		return Response{}, err
	}
	if resp.Put, err = solveLeg(inv, models.Put, req.PutPrice, req.Spot, req.Strike, T, r); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func solveLeg(inv *volatility.Inverter, optType models.OptionType, observed, S, K, T, r float64) (Leg, error) {
	res, err := inv.Solve(observed, S, K, T, r, optType)
	if err != nil {
		return Leg{}, err
	}
	greeks, err := models.Greeks(optType, models.Params{S: S, K: K, T: T, R: r, Sigma: res.Sigma})
	if err != nil {
		return Leg{}, err
	}
	return Leg{Result: res, Greeks: greeks}, nil
}

type Options struct {
	DaysPerYear float64
	JSON        bool
}

// Run reads one request from in and writes the CE and PE implied
// volatilities to out. Malformed or non-positive numbers print
// InvalidInputMessage and return nil.
func Run(in io.Reader, out io.Writer, inv *volatility.Inverter, opts Options) error {
	req, err := ReadRequest(in, out)
	if err != nil {
		if errors.Is(err, errInvalidInput) {
			fmt.Fprintln(out, InvalidInputMessage)
			return nil
		}
		return err
	}

	resp, err := Solve(inv, req, opts.DaysPerYear)
	if err != nil {
		if errors.Is(err, models.ErrInvalidParameter) {
			fmt.Fprintln(out, InvalidInputMessage)
			return nil
		}
		return err
	}
	return WriteResponse(out, resp, opts.JSON)
}

func WriteResponse(w io.Writer, resp Response, asJSON bool) error {
	if asJSON {
		b, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	_, err := fmt.Fprint(w, FormatResponse(resp))
	return err
}

func FormatResponse(resp Response) string {
	return fmt.Sprintf("CE IV: %v\nPE IV: %v\n", resp.Call.Sigma, resp.Put.Sigma)
}
