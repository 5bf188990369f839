package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/client"
)

// Usage example on the command line:
// > go run ./cmd/wait-until-available -url http://localhost:8080
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the service")
	delay := flag.Duration("delay", 5*time.Second, "time between two attempts")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := client.New(*baseURL, nil).WaitUntilAvailable(ctx, *delay, func(waited time.Duration, err error) {
		fmt.Println(err)
		fmt.Printf("Waiting %d seconds", int(waited.Seconds()))
		fmt.Println()
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("Service is available at", *baseURL)
}
