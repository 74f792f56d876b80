package main

import (
	"context"
	"os"

	"github.com/nsqlite/tblexport/internal/tblexport"
)

func main() {
	if err := tblexport.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
