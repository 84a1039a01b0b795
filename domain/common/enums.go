package common

import (
	"fmt"
	"slices"
	"strings"
)

// ParseEnum sets dst to the known value matching b, ignoring case. It
// backs the UnmarshalText methods of the enumerated element types.
func ParseEnum[E ~string](dst *E, b []byte, known []E) error {
	v := E(strings.ToUpper(strings.TrimSpace(string(b))))
	if !slices.Contains(known, v) {
		return fmt.Errorf("unknown %T %q", *dst, string(b))
	}
	*dst = v
	return nil
}

type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

func (s Severity) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	return ParseEnum(s, b, []Severity{SeverityInfo, SeverityWarn, SeverityError})
}

type TransactionType string

const (
	TxCredit      TransactionType = "CREDIT"
	TxDebit       TransactionType = "DEBIT"
	TxInterest    TransactionType = "INT"
	TxDividend    TransactionType = "DIV"
	TxFee         TransactionType = "FEE"
	TxServiceChg  TransactionType = "SRVCHG"
	TxDeposit     TransactionType = "DEP"
	TxATM         TransactionType = "ATM"
	TxPOS         TransactionType = "POS"
	TxTransfer    TransactionType = "XFER"
	TxCheck       TransactionType = "CHECK"
	TxPayment     TransactionType = "PAYMENT"
	TxCash        TransactionType = "CASH"
	TxDirectDep   TransactionType = "DIRECTDEP"
	TxDirectDebit TransactionType = "DIRECTDEBIT"
	TxRepeatPmt   TransactionType = "REPEATPMT"
	TxHold        TransactionType = "HOLD"
	TxOther       TransactionType = "OTHER"
)

var transactionTypes = []TransactionType{
	TxCredit, TxDebit, TxInterest, TxDividend, TxFee, TxServiceChg,
	TxDeposit, TxATM, TxPOS, TxTransfer, TxCheck, TxPayment, TxCash,
	TxDirectDep, TxDirectDebit, TxRepeatPmt, TxHold, TxOther,
}

func (t TransactionType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *TransactionType) UnmarshalText(b []byte) error {
	return ParseEnum(t, b, transactionTypes)
}

type AccountType string

const (
	Checking    AccountType = "CHECKING"
	Savings     AccountType = "SAVINGS"
	MoneyMarket AccountType = "MONEYMRKT"
	CreditLine  AccountType = "CREDITLINE"
	CD          AccountType = "CD"
)

func (t AccountType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *AccountType) UnmarshalText(b []byte) error {
	return ParseEnum(t, b, []AccountType{Checking, Savings, MoneyMarket, CreditLine, CD})
}

type CorrectionAction string

const (
	CorrectionReplace CorrectionAction = "REPLACE"
	CorrectionDelete  CorrectionAction = "DELETE"
)

func (a CorrectionAction) MarshalText() ([]byte, error) { return []byte(a), nil }

func (a *CorrectionAction) UnmarshalText(b []byte) error {
	return ParseEnum(a, b, []CorrectionAction{CorrectionReplace, CorrectionDelete})
}

// AccountStatus is the service status of an account in an account list.
type AccountStatus string

const (
	AccountAvailable AccountStatus = "AVAIL"
	AccountPending   AccountStatus = "PEND"
	AccountActive    AccountStatus = "ACTIVE"
)

func (s AccountStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *AccountStatus) UnmarshalText(b []byte) error {
	return ParseEnum(s, b, []AccountStatus{AccountAvailable, AccountPending, AccountActive})
}
