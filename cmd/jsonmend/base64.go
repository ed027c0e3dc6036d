package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/leofalp/jsonmend/core/editor"
	"github.com/leofalp/jsonmend/providers/observability"
)

// base64Command runs one of the editor Base64 commands over a whole input.
type base64Command struct {
	cli     *cli
	file    string
	command func(context.Context, editor.Document) editor.Outcome
}

func addBase64Commands(app *kingpin.Application, c *cli) {
	encode := &base64Command{cli: c, command: editor.EncodeBase64}
	clause := app.Command("encode", "Encode a file (or stdin) to Base64.").Action(encode.run)
	clause.Arg("file", "File to encode. Stdin is read when omitted.").ExistingFileVar(&encode.file)

	decode := &base64Command{cli: c, command: editor.DecodeBase64}
	clause = app.Command("decode", "Decode Base64 from a file (or stdin). Line breaks are ignored.").Action(decode.run)
	clause.Arg("file", "File to decode. Stdin is read when omitted.").ExistingFileVar(&decode.file)
}

func (cmd *base64Command) run(_ *kingpin.ParseContext) error {
	rt, err := cmd.cli.setup()
	if err != nil {
		return err
	}
	defer rt.shutdown(cmd.cli)

	var data []byte
	if cmd.file == "" {
		data, err = io.ReadAll(cmd.cli.stdin)
	} else {
		data, err = os.ReadFile(cmd.file)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	ctx := observability.ContextWithObserver(cmd.cli.ctx, rt.observer)
	doc := editor.Document{Text: string(data)}
	outcome := cmd.command(ctx, doc)
	if outcome.Err != nil {
		return outcome.Err
	}

	_, err = io.WriteString(cmd.cli.stdout, outcome.Apply(doc))
	return err
}
