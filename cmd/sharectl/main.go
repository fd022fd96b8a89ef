// Command sharectl is a small operator tool for the manual disclosure
// surface: it prompts for the user's secret key without echo and invokes the
// share operation against a running server.
//
// Usage:
//
//	sharectl -u http://localhost:8080 -t <session-jwt> [-r spouse@example.com]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type shareRequest struct {
	SecretKey  string   `json:"secret_key"`
	Recipients []string `json:"recipients,omitempty"`
}

type shareResponse struct {
	Success      bool     `json:"success"`
	SharedCount  int      `json:"shared_count"`
	FailedEmails []string `json:"failed_emails,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func main() {
	baseURL := flag.String("u", "http://localhost:8080", "server base URL")
	token := flag.String("t", "", "session bearer token")
	recipients := flag.String("r", "", "comma-separated recipient override (defaults to emergency contacts)")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "a session token (-t) is required")
		os.Exit(1)
	}

	fmt.Print("Enter secret key: ")
	key, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading secret key: %v\n", err)
		os.Exit(1)
	}

	req := shareRequest{SecretKey: string(key)}
	if *recipients != "" {
		for _, r := range strings.Split(*recipients, ",") {
			req.Recipients = append(req.Recipients, strings.TrimSpace(r))
		}
	}

	result, err := share(*baseURL, *token, &req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "share failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("shared with %d recipient(s)\n", result.SharedCount)
	for _, failed := range result.FailedEmails {
		fmt.Printf("delivery failed: %s\n", failed)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func share(baseURL, token string, req *shareRequest) (*shareResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, strings.TrimRight(baseURL, "/")+"/api/share", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out shareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("%s (status %d)", out.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return &out, nil
}
