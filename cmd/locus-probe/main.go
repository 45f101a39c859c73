package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/locus/locus/pkg/detector"
	"github.com/locus/locus/pkg/utils"
)

func main() {
	duration := pflag.Duration("duration", 30*time.Second, "how long to keep probing")
	every := pflag.Duration("every", 2*time.Second, "delay between rounds")
	tool := pflag.String("script-tool", "osascript", "AppleScript interpreter")
	pflag.Parse()

	fmt.Println("Window Probe Diagnostics")
	fmt.Println("========================")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	det, err := detector.New(ctx, detector.Options{ScriptTool: *tool})
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}
	defer det.Close()

	strategies := det.Strategies()
	fmt.Printf("\nDisplay Server: %s\n", det.DisplayServer())
	fmt.Printf("Strategies: %d\n\n", len(strategies))

	fmt.Printf("Probing every strategy for %v\n", *duration)
	fmt.Println("Switch between different applications to test detection")
	fmt.Println()

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	timeout := time.After(*duration)
	count := 0

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nInterrupted")
			return

		case <-timeout:
			fmt.Println("\nTest completed!")
			return

		case <-ticker.C:
			count++
			fmt.Printf("[%d]\n", count)

			for _, s := range strategies {
				start := time.Now()
				info, err := s.Probe(ctx)
				elapsed := time.Since(start).Round(time.Millisecond)

				switch {
				case err != nil:
					fmt.Printf("  %-16s error    %-8v %v\n", s.Name, elapsed, err)
				case s.Accept != nil && !s.Accept(info):
					fmt.Printf("  %-16s rejected %-8v %s | %s\n", s.Name, elapsed,
						utils.Truncate(info.Class, 20), utils.Truncate(info.Title, 50))
				default:
					fmt.Printf("  %-16s ok       %-8v %s | %s\n", s.Name, elapsed,
						utils.Truncate(info.Class, 20), utils.Truncate(info.Title, 50))
				}
			}

			fmt.Printf("  => chain: %s\n", det.Probe(ctx))
		}
	}
}
