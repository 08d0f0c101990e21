package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/bcdannyboy/ivsolve/cli"
	"github.com/bcdannyboy/ivsolve/config"
	ivslack "github.com/bcdannyboy/ivsolve/slack"
	"github.com/bcdannyboy/ivsolve/volatility"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file with IV_* and SLACK_* settings")
	batchPath := flag.String("batch", "", "CSV file of quotes (type,price,spot,strike,days,rate) to solve in bulk")
	outPath := flag.String("out", "", "write batch results to this file instead of stdout")
	asJSON := flag.Bool("json", false, "print results as JSON, including convergence status and Greeks")
	progress := flag.Bool("progress", true, "show a progress bar on stderr in batch mode")
	runSlack := flag.Bool("slack", false, "serve /iv and /help as Slack slash commands")
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*envFile)
	if err != nil {
		glog.Exitf("config: %v", err)
	}

	inv, err := volatility.NewInverter(cfg.Search)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	glog.V(1).Infof("search config: %+v", inv.Config())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			glog.Exitf("creating %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch {
	case *runSlack:
		if cfg.SlackAppToken == "" || cfg.SlackBotToken == "" {
			glog.Exitf("%s and %s must be set to run the Slack bot", config.EnvSlackAppToken, config.EnvSlackBotToken)
		}
		bot := ivslack.NewSlackBot(cfg.SlackAppToken, cfg.SlackBotToken, inv, cfg.DaysPerYear)
		if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
			glog.Exitf("slack bot: %v", err)
		}

	case *batchPath != "":
		f, err := os.Open(*batchPath)
		if err != nil {
			glog.Exitf("opening %s: %v", *batchPath, err)
		}
		defer f.Close()

		opts := cli.BatchOptions{
			DaysPerYear: cfg.DaysPerYear,
			Workers:     cfg.Workers,
			JSON:        *asJSON,
		}
		if *progress {
			opts.Progress = os.Stderr
		}
		if err := cli.RunBatch(ctx, f, out, inv, opts); err != nil {
			glog.Exitf("batch %s: %v", *batchPath, err)
		}

	default:
		if err := cli.Run(os.Stdin, os.Stdout, inv, cli.Options{DaysPerYear: cfg.DaysPerYear, JSON: *asJSON}); err != nil {
			glog.Exitf("%v", err)
		}
	}
}
