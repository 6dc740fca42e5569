package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

func (req *TradeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Symbol, validation.Required, validation.Length(1, 10)),
		validation.Field(&req.Shares, validation.Required, validation.Min(int64(1))),
	)
}
