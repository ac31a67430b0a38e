package models

// PaymentCurrency is the only currency payment intents are created in.
const PaymentCurrency = "usd"

// PaymentIntentRequest is the body of POST /payment-intent. Price is a JSON number
// or numeric string in major currency units.
type PaymentIntentRequest struct {
	Price interface{} `json:"price"`
}

// PaymentIntentResponse carries the client secret back to the browser.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// TokenResponse is returned by POST /jwt.
type TokenResponse struct {
	Token string `json:"token"`
}
