// Command easegen generates the accessor operations of flat records.
//
// Usage:
//
//	easegen generate ./models
//	easegen ops ./models/post.go --type Post
//	easegen watch ./models
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/ease/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
