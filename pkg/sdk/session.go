package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sessionsEndpoint = "sessions"

type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Records   uint64    `json:"records"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionPage struct {
	Offset   uint64    `json:"offset"`
	Limit    uint64    `json:"limit"`
	Total    uint64    `json:"total"`
	Sessions []Session `json:"sessions"`
}

func (sdk *ledgerSDK) CreateSession(s Session) (Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return Session{}, err
	}

	url := fmt.Sprintf("%s/%s", sdk.ledgerURL, sessionsEndpoint)
	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusCreated)
	if err != nil {
		return Session{}, err
	}

	var created Session
	if err := json.Unmarshal(body, &created); err != nil {
		return Session{}, err
	}

	return created, nil
}

func (sdk *ledgerSDK) GetSession(id string) (Session, error) {
	url := fmt.Sprintf("%s/%s/%s", sdk.ledgerURL, sessionsEndpoint, id)
	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, err
	}

	return s, nil
}

func (sdk *ledgerSDK) ListSessions(offset, limit uint64) (SessionPage, error) {
	url := fmt.Sprintf("%s/%s?offset=%d&limit=%d", sdk.ledgerURL, sessionsEndpoint, offset, limit)
	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return SessionPage{}, err
	}

	var page SessionPage
	if err := json.Unmarshal(body, &page); err != nil {
		return SessionPage{}, err
	}

	return page, nil
}

func (sdk *ledgerSDK) DeleteSession(id string) error {
	url := fmt.Sprintf("%s/%s/%s", sdk.ledgerURL, sessionsEndpoint, id)
	if _, err := sdk.processRequest(http.MethodDelete, url, nil, http.StatusNoContent); err != nil {
		return err
	}

	return nil
}
