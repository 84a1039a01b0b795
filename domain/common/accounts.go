package common

import "github.com/signadot/go-ofx/schema"

// BankAccountDetails identifies a bank account. It has no aggregate name
// of its own: it appears as BANKACCTFROM, BANKACCTTO and so on.
type BankAccountDetails struct {
	BankID      string
	BranchID    string
	AccountID   string
	AccountType AccountType
	AccountKey  string
}

// CreditCardAccountDetails identifies a credit card account (CCACCTFROM,
// CCACCTTO).
type CreditCardAccountDetails struct {
	AccountID  string
	AccountKey string
}

func registerAccounts(r *schema.Registry) {
	schema.Aggregate[BankAccountDetails](r, "", nil)
	schema.Element(r, "BANKID", 0, func(a *BankAccountDetails) *string { return &a.BankID }, schema.Required())
	schema.Element(r, "BRANCHID", 10, func(a *BankAccountDetails) *string { return &a.BranchID })
	schema.Element(r, "ACCTID", 20, func(a *BankAccountDetails) *string { return &a.AccountID }, schema.Required())
	schema.Element(r, "ACCTTYPE", 30, func(a *BankAccountDetails) *AccountType { return &a.AccountType }, schema.Required())
	schema.Element(r, "ACCTKEY", 40, func(a *BankAccountDetails) *string { return &a.AccountKey })

	schema.Aggregate[CreditCardAccountDetails](r, "", nil)
	schema.Element(r, "ACCTID", 0, func(a *CreditCardAccountDetails) *string { return &a.AccountID }, schema.Required())
	schema.Element(r, "ACCTKEY", 10, func(a *CreditCardAccountDetails) *string { return &a.AccountKey })
}
