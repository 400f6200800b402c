package main

import (
	"context"
	"log"

	"github.com/neosmart/gosqlite/internal/shell"
)

func main() {
	if err := shell.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
