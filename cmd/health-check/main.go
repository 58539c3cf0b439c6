// Package main provides a standalone health probe for the QuestKitchen API.
// Intended for Docker HEALTHCHECK directives and monitoring scripts where
// curl is unavailable.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// probeConfig holds command-line configuration
type probeConfig struct {
	URL        string
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
	Verbose    bool
}

// healthResponse mirrors the body of /health and /ready
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func main() {
	os.Exit(run(parseFlags()))
}

// parseFlags parses command-line flags
func parseFlags() probeConfig {
	cfg := probeConfig{}

	flag.StringVar(&cfg.URL, "url", "", "Health endpoint URL (e.g. http://localhost:8080/health)")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Request timeout")
	flag.IntVar(&cfg.RetryCount, "retry", 0, "Number of retries on failure")
	flag.DurationVar(&cfg.RetryDelay, "retry-delay", time.Second, "Delay between retries")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")

	flag.Parse()

	if cfg.URL == "" {
		if url := os.Getenv("HEALTH_CHECK_URL"); url != "" {
			cfg.URL = url
		} else {
			cfg.URL = "http://localhost:8080/health"
		}
	}

	return cfg
}

func run(cfg probeConfig) int {
	client := &http.Client{Timeout: cfg.Timeout}

	var lastErr error
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			if cfg.Verbose {
				fmt.Printf("Retrying in %v... (attempt %d/%d)\n", cfg.RetryDelay, attempt, cfg.RetryCount)
			}
			time.Sleep(cfg.RetryDelay)
		}

		resp, err := client.Get(cfg.URL)
		if err != nil {
			lastErr = err
			if cfg.Verbose {
				fmt.Printf("Request failed: %v\n", err)
			}
			continue
		}

		return handleResponse(resp, cfg)
	}

	fmt.Printf("Health check failed after %d attempts: %v\n", cfg.RetryCount+1, lastErr)
	return exitCodeError
}

// handleResponse maps the endpoint reply onto an exit code
func handleResponse(resp *http.Response, cfg probeConfig) int {
	defer resp.Body.Close()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Failed to decode response: %v\n", err)
		return exitCodeError
	}

	if cfg.Verbose {
		fmt.Printf("Status: %s\n", body.Status)
		if body.Service != "" {
			fmt.Printf("Service: %s\n", body.Service)
		}
		if body.Version != "" {
			fmt.Printf("Version: %s\n", body.Version)
		}
	} else {
		fmt.Println(body.Status)
	}

	// /health reports "healthy", /ready reports "ready"
	if resp.StatusCode == http.StatusOK && (body.Status == "healthy" || body.Status == "ready") {
		return exitCodeSuccess
	}

	return exitCodeFailure
}
