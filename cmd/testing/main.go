package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

var URL, _ = os.LookupEnv("API_URL")
var PORT, _ = os.LookupEnv("API_PORT")
var apiURL = fmt.Sprintf("http://%s:%s/api", URL, PORT)

const (
	workers  = 10
	duration = 30 * time.Second
)

type session struct {
	Token         string `json:"token"`
	UserID        string `json:"user_id"`
	AccountNumber string
}

type account struct {
	AccountNumber string `json:"account_number"`
}

type dashboard struct {
	TotalBalance string `json:"total_balance"`
}

// Two users shuffle money back and forth. The sum of both dashboards must stay at two welcome bonuses.
func main() {
	alice, err := register()
	if err != nil {
		fmt.Println("Error registering user:", err)
		os.Exit(1)
	}
	bob, err := register()
	if err != nil {
		fmt.Println("Error registering user:", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		from, to := alice, bob
		if i%2 == 1 {
			from, to = bob, alice
		}
		go func() {
			defer wg.Done()
			start := time.Now()
			for time.Since(start) < duration {
				status, err := sendTransfer(from, to)
				if err != nil {
					fmt.Println("Error sending transfer:", err)
				} else {
					fmt.Printf("Transfer %s -> %s. Status code: %d\n", from.AccountNumber, to.AccountNumber, status)
				}
				time.Sleep(time.Duration(rand.Intn(200)) * time.Millisecond)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				printTotals(alice, bob)
			case <-done:
				return
			}
		}
	}()

	wg.Wait()
	close(done)
	printTotals(alice, bob)
}

func register() (*session, error) {
	id := uuid.NewString()[:8]
	body := map[string]string{
		"email":     fmt.Sprintf("load-%s@example.com", id),
		"password":  "secret-" + id,
		"full_name": "Load " + id,
		"phone":     "+10000000000",
	}

	var s session
	status, err := call(http.MethodPost, "/register", "", body, &s)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("register: status code %d", status)
	}

	var accounts []account
	if _, err := call(http.MethodGet, "/accounts/"+s.UserID, s.Token, nil, &accounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("user %s has no accounts", s.UserID)
	}
	s.AccountNumber = accounts[0].AccountNumber
	return &s, nil
}

func sendTransfer(from, to *session) (int, error) {
	amount := fmt.Sprintf("%d.%02d", rand.Intn(50), rand.Intn(100))
	body := map[string]string{
		"from_account": from.AccountNumber,
		"to_account":   to.AccountNumber,
		"amount":       amount,
		"description":  "load test",
	}
	return call(http.MethodPost, "/transfer", from.Token, body, nil)
}

func printTotals(users ...*session) {
	for _, u := range users {
		var d dashboard
		if _, err := call(http.MethodGet, "/dashboard/"+u.UserID, u.Token, nil, &d); err != nil {
			fmt.Println("Error getting dashboard:", err)
			continue
		}
		fmt.Printf("User %s total balance: %s\n", u.UserID, d.TotalBalance)
	}
}

// call sends a JSON request and decodes a 2xx response into out. Non-2xx statuses other than
// insufficient funds and lock conflicts are returned as errors.
func call(method, path, token string, body, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequest(method, apiURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusServiceUnavailable:
		return resp.StatusCode, nil
	default:
		return resp.StatusCode, fmt.Errorf("wrong status code: %d", resp.StatusCode)
	}

	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
