package domain

import (
	"errors"

	"github.com/tokenfront/goapi/base/money"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// ErrInvalidAmount is the money package's parse error, re-exported so
	// callers can match on it without importing base/money
	ErrInvalidAmount = money.ErrInvalidAmount

	// ErrFeeFetchFailed will throw when the upstream fee endpoint cannot
	// be reached or returns garbage
	ErrFeeFetchFailed = errors.New("fee fetch failed")
	// ErrInsufficientBalance will throw when the payer balance cannot
	// cover price plus fees
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSubmissionFailed will throw when the orderbook rejects a quote
	ErrSubmissionFailed = errors.New("submission failed")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
)
