package api

import (
	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/session"
)

type createSessionReq struct {
	session.Session `json:",inline"`
}

func (r *createSessionReq) validate() error {
	return nil
}

type entityReq struct {
	id string
}

func (r *entityReq) validate() error {
	if r.id == "" {
		return errors.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (r *listEntityReq) validate() error {
	return nil
}

type lossReq struct {
	id string

	Round *int     `json:"round"`
	Loss  *float64 `json:"loss"`
}

func (r *lossReq) validate() error {
	if r.id == "" {
		return errors.ErrMissingID
	}
	if r.Round == nil {
		return errors.ErrMissingRound
	}
	if r.Loss == nil {
		return errors.ErrInvalidData
	}

	return nil
}

type metricsReq struct {
	id string

	Round   *int                      `json:"round"`
	Metrics map[string]history.Scalar `json:"metrics"`
}

func (r *metricsReq) validate() error {
	if r.id == "" {
		return errors.ErrMissingID
	}
	if r.Round == nil {
		return errors.ErrMissingRound
	}

	return nil
}

type recordCBORReq struct {
	data []byte
}

func (r *recordCBORReq) validate() error {
	if len(r.data) == 0 {
		return errors.ErrInvalidData
	}

	return nil
}
