package api

import (
	"net/http"

	"github.com/absmach/fledger/pkg/api"
	"github.com/absmach/fledger/session"
)

var (
	_ api.Response = (*sessionResponse)(nil)
	_ api.Response = (*listSessionsResponse)(nil)
	_ api.Response = (*recordResponse)(nil)
	_ api.Response = (*structuredReportResponse)(nil)
)

type sessionResponse struct {
	session.Session
	created bool
	deleted bool
}

func (s sessionResponse) Code() int {
	if s.created {
		return http.StatusCreated
	}
	if s.deleted {
		return http.StatusNoContent
	}

	return http.StatusOK
}

func (s sessionResponse) Headers() map[string]string {
	if s.created {
		return map[string]string{
			"Location": "/sessions/" + s.ID,
		}
	}

	return map[string]string{}
}

func (s sessionResponse) Empty() bool {
	return s.deleted
}

type listSessionsResponse struct {
	session.SessionPage
}

func (l listSessionsResponse) Code() int {
	return http.StatusOK
}

func (l listSessionsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listSessionsResponse) Empty() bool {
	return false
}

type recordResponse struct{}

func (r recordResponse) Code() int {
	return http.StatusNoContent
}

func (r recordResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r recordResponse) Empty() bool {
	return true
}

type textReportResponse struct {
	report string
}

type structuredReportResponse struct {
	Report map[string]any `json:"report"`
}

func (s structuredReportResponse) Code() int {
	return http.StatusOK
}

func (s structuredReportResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s structuredReportResponse) Empty() bool {
	return false
}
