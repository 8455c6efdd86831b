package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type PageMetadata struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type SDK interface {
	// CreateSession creates a new recording session.
	//
	// example:
	//  s := sdk.Session{
	//    Name: "mnist-baseline",
	//  }
	//  s, _ := sdk.CreateSession(s)
	//  fmt.Println(s)
	CreateSession(s Session) (Session, error)

	// GetSession gets a session by id.
	//
	// example:
	//  s, _ := sdk.GetSession("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(s)
	GetSession(id string) (Session, error)

	// ListSessions lists sessions.
	//
	// example:
	//  page, _ := sdk.ListSessions(0, 10)
	//  fmt.Println(page)
	ListSessions(offset, limit uint64) (SessionPage, error)

	// DeleteSession deletes a session and its ledger.
	//
	// example:
	//  _ = sdk.DeleteSession("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	DeleteSession(id string) error

	// RecordLoss appends one loss entry on the named channel, either
	// "loss/distributed" or "loss/centralized".
	//
	// example:
	//  _ = sdk.RecordLoss("b1d10738-...", "loss/distributed", 3, 0.42)
	RecordLoss(sessionID, channel string, round int, loss float64) error

	// RecordMetrics appends named metric values on one of the metrics
	// channels: "metrics/fit", "metrics/eval" or "metrics/centralized".
	//
	// example:
	//  _ = sdk.RecordMetrics("b1d10738-...", "metrics/fit", 3, map[string]any{"accuracy": 0.9})
	RecordMetrics(sessionID, channel string, round int, metrics map[string]any) error

	// TextReport fetches the human-readable report.
	//
	// example:
	//  rep, _ := sdk.TextReport("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(rep)
	TextReport(sessionID string) (string, error)

	// StructuredReport fetches the serializable report.
	//
	// example:
	//  rep, _ := sdk.StructuredReport("b1d10738-c5d7-4ff1-8f4d-b9328ce6f040")
	//  fmt.Println(rep)
	StructuredReport(sessionID string) (map[string]any, error)
}

type ledgerSDK struct {
	ledgerURL string
	client    *http.Client
}

type Config struct {
	LedgerURL       string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &ledgerSDK{
		ledgerURL: cfg.LedgerURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *ledgerSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}
