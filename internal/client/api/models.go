package api

// Category is one ledger as the server reports it, including the caller's
// capability level and wrapped key.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	IsSplit       bool      `json:"isSplit"`
	LastEdited    int64     `json:"lastEdited"`
	Permission    int       `json:"permission"`
	EncryptionKey string    `json:"encryptionKey"`
	Payments      []Payment `json:"payments"`
	Splits        []Split   `json:"splits"`
}

type Payment struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        int64   `json:"date"`
	Payer       string  `json:"payer"`
	Payed       bool    `json:"payed"`
}

type Split struct {
	CategoryID     int64   `json:"categoryId"`
	Username       string  `json:"username"`
	Share          float64 `json:"share"`
	IsPlatformUser bool    `json:"isPlatformUser"`
}
