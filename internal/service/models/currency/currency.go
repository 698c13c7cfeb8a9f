package currency

import (
	"database/sql/driver"
	"errors"
)

type Currency string

const (
	CurrencyILS Currency = "ILS"
	CurrencyJOD Currency = "JOD"
	CurrencyUSD Currency = "USD"
)

var ErrInvalidCurrency = errors.New("invalid currency")

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

func ParseCurrency(s string) (Currency, error) {
	switch s {
	case CurrencyILS.String():
		return CurrencyILS, nil
	case CurrencyJOD.String():
		return CurrencyJOD, nil
	case CurrencyUSD.String():
		return CurrencyUSD, nil
	default:
		return "", ErrInvalidCurrency
	}
}
