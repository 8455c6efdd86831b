package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var errUnknownChannel = errors.New("unknown record channel")

var lossChannels = map[string]bool{
	"loss/distributed": true,
	"loss/centralized": true,
}

var metricsChannels = map[string]bool{
	"metrics/fit":         true,
	"metrics/eval":        true,
	"metrics/centralized": true,
}

func (sdk *ledgerSDK) RecordLoss(sessionID, channel string, round int, loss float64) error {
	if !lossChannels[channel] {
		return errUnknownChannel
	}

	data, err := json.Marshal(map[string]any{
		"round": round,
		"loss":  loss,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/%s", sdk.ledgerURL, sessionsEndpoint, sessionID, channel)
	if _, err := sdk.processRequest(http.MethodPost, url, data, http.StatusNoContent); err != nil {
		return err
	}

	return nil
}

func (sdk *ledgerSDK) RecordMetrics(sessionID, channel string, round int, metrics map[string]any) error {
	if !metricsChannels[channel] {
		return errUnknownChannel
	}

	data, err := json.Marshal(map[string]any{
		"round":   round,
		"metrics": metrics,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s/%s", sdk.ledgerURL, sessionsEndpoint, sessionID, channel)
	if _, err := sdk.processRequest(http.MethodPost, url, data, http.StatusNoContent); err != nil {
		return err
	}

	return nil
}

func (sdk *ledgerSDK) TextReport(sessionID string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/report", sdk.ledgerURL, sessionsEndpoint, sessionID)
	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (sdk *ledgerSDK) StructuredReport(sessionID string) (map[string]any, error) {
	url := fmt.Sprintf("%s/%s/%s/report/structured", sdk.ledgerURL, sessionsEndpoint, sessionID)
	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Report map[string]any `json:"report"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	return resp.Report, nil
}
