package main

import (
	"context"

	"github.com/scott-cotton/cli"

	_ "github.com/signadot/go-ofx/domain/envelope"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
