// Command devnet manages encrypted fee payer accounts and contract deployments on development networks.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode prints err and maps it to the process exit status
func exitCode(err error) int {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintln(os.Stderr, validationErr.Error())
		return 1
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "aborted")
		return 130
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
