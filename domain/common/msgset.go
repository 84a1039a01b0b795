package common

import "cmp"

// MessageSetType identifies a message set. Envelopes emit their message
// sets in ascending MessageSetType order.
type MessageSetType int

const (
	SignonMessageSet MessageSetType = iota
	SignupMessageSet
	BankingMessageSet
	CreditCardMessageSet
	InvestmentMessageSet
	InterbankTransferMessageSet
	WireTransferMessageSet
	PaymentsMessageSet
	EmailMessageSet
	InvestmentSecurityMessageSet
	ProfileMessageSet
	Tax1099MessageSet
)

var msgSetNames = [...]string{
	"signon",
	"signup",
	"banking",
	"creditcard",
	"investment",
	"interbank",
	"wiretransfer",
	"payments",
	"email",
	"investment_security",
	"profile",
	"tax1099",
}

func (t MessageSetType) String() string {
	if t < 0 || int(t) >= len(msgSetNames) {
		return "unknown"
	}
	return msgSetNames[t]
}

// RequestMessageSet is a message set that can appear in a request
// envelope.
type RequestMessageSet interface {
	Type() MessageSetType
	// Requests lists the messages of the set that are present.
	Requests() []any
}

// ResponseMessageSet is a message set that can appear in a response
// envelope.
type ResponseMessageSet interface {
	Type() MessageSetType
	// Responses lists the status-bearing messages of the set that are
	// present.
	Responses() []StatusHolder
}

// ByType orders message sets by their type.
func ByType[M interface{ Type() MessageSetType }](a, b M) int {
	return cmp.Compare(a.Type(), b.Type())
}
