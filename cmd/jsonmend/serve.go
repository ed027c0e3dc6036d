package main

import (
	"github.com/alecthomas/kingpin/v2"

	"github.com/leofalp/jsonmend/internal/server"
)

type serveCommand struct {
	cli      *cli
	addr     string
	fallback bool
}

func addServeCommand(app *kingpin.Application, c *cli) {
	cmd := &serveCommand{cli: c}
	clause := app.Command("serve", "Serve the repair and Base64 API over HTTP.").Action(cmd.run)
	clause.Flag("addr", "Listen address. Overrides server.addr.").StringVar(&cmd.addr)
	clause.Flag("fallback", "Try the jsonrepair library when every built-in strategy fails.").BoolVar(&cmd.fallback)
}

func (cmd *serveCommand) run(_ *kingpin.ParseContext) error {
	rt, err := cmd.cli.setup()
	if err != nil {
		return err
	}
	defer rt.shutdown(cmd.cli)

	if cmd.addr != "" {
		rt.cfg.Server.Addr = cmd.addr
	}
	return server.New(rt.cfg, rt.pipeline(cmd.fallback), rt.observer).ListenAndServe(cmd.cli.ctx)
}
