// Package tblexport wires the command line, logging and console
// report around the exporter.
package tblexport

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/nsqlite/tblexport/internal/exporter"
	"github.com/nsqlite/tblexport/internal/log"
	"github.com/nsqlite/tblexport/internal/tblexport/config"
)

// Run runs the tblexport CLI. The returned error has already been
// reported on stdout.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(os.Stderr, conf.Level)

	var progress io.Writer
	if !conf.NoProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		progress = os.Stderr
	}

	return export(ctx, conf, logger, newConsole(os.Stdout, progress))
}

// export runs one export and reports it on con.
func export(
	ctx context.Context, conf config.Config, logger log.Logger, con *console,
) error {
	previewRows := conf.PreviewRows
	if previewRows == 0 {
		previewRows = -1
	}

	result, err := exporter.Export(ctx, exporter.Config{
		Logger:      logger,
		Observer:    con,
		Database:    conf.Database,
		Driver:      conf.ParsedDriver,
		Table:       conf.Table,
		Output:      conf.Output,
		Comma:       conf.Comma,
		OrderBy:     conf.OrderBy,
		PreviewRows: previewRows,
	})
	con.finishBar()

	if err != nil {
		con.Failed(err)
		logger.ErrorNs("tblexport", "export failed", log.KV{
			"kind":  exporter.KindFromError(err).Value,
			"error": err.Error(),
		})
		return err
	}

	con.Done(result, conf.Output)
	return nil
}
