package dto

import (
	"bytes"
	"encoding/json"

	"github.com/hongminglow/payportal/internal/models"
)

// Amount holds the raw textual amount. The frontend posts form values, so
// both JSON numbers and JSON strings are accepted.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

type CreatePaymentRequest struct {
	Amount                 Amount `json:"amount"`
	Currency               string `json:"currency"`
	BeneficiaryName        string `json:"beneficiaryName"`
	PaymentReference       string `json:"paymentReference"`
	RecipientAccountNumber string `json:"recipientAccountNumber"`
	UserAccountNumber      string `json:"userAccountNumber"`
}

type PaymentResponse struct {
	Message string         `json:"message"`
	Payment models.Payment `json:"payment"`
}
