// Command qrcode-ui serves the QR code creator.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// If a second signal arrives, force exit immediately.
		<-sigCh
		log.Println("second interrupt received, forcing shutdown")
		os.Exit(1)
	}()

	err := newRootCommand().ExecuteContext(ctx)
	signal.Stop(sigCh)
	cancel()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
