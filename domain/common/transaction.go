package common

import (
	"time"

	"github.com/signadot/go-ofx/schema"
)

// Transaction is one STMTTRN.
type Transaction struct {
	Type             TransactionType
	DatePosted       time.Time
	DateInitiated    time.Time
	DateAvailable    time.Time
	Amount           float64
	ID               string
	CorrectionID     string
	CorrectionAction CorrectionAction
	TempID           string
	CheckNumber      string
	ReferenceNumber  string
	SIC              string
	PayeeID          string
	Name             string
	Payee            *Payee
	BankAccountTo    *BankAccountDetails
	CCAccountTo      *CreditCardAccountDetails
	Memo             string
	Currency         *Currency
	OriginalCurrency *Currency
}

// TransactionList is BANKTRANLIST.
type TransactionList struct {
	Start        time.Time
	End          time.Time
	Transactions []*Transaction
}

type Payee struct {
	Name       string
	Address1   string
	Address2   string
	Address3   string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

type Currency struct {
	Code         string
	ExchangeRate float64
}

func registerTransaction(r *schema.Registry) {
	schema.Aggregate[Transaction](r, "STMTTRN", nil)
	schema.Element(r, "TRNTYPE", 0, func(t *Transaction) *TransactionType { return &t.Type }, schema.Required())
	schema.Element(r, "DTPOSTED", 10, func(t *Transaction) *time.Time { return &t.DatePosted }, schema.Required())
	schema.Element(r, "DTUSER", 20, func(t *Transaction) *time.Time { return &t.DateInitiated })
	schema.Element(r, "DTAVAIL", 30, func(t *Transaction) *time.Time { return &t.DateAvailable })
	schema.Element(r, "TRNAMT", 40, func(t *Transaction) *float64 { return &t.Amount }, schema.Required())
	schema.Element(r, "FITID", 50, func(t *Transaction) *string { return &t.ID }, schema.Required())
	schema.Element(r, "CORRECTFITID", 60, func(t *Transaction) *string { return &t.CorrectionID })
	schema.Element(r, "CORRECTACTION", 70, func(t *Transaction) *CorrectionAction { return &t.CorrectionAction })
	schema.Element(r, "SRVRTID", 80, func(t *Transaction) *string { return &t.TempID })
	schema.Element(r, "CHECKNUM", 90, func(t *Transaction) *string { return &t.CheckNumber })
	schema.Element(r, "REFNUM", 100, func(t *Transaction) *string { return &t.ReferenceNumber })
	schema.Element(r, "SIC", 110, func(t *Transaction) *string { return &t.SIC })
	schema.Element(r, "PAYEEID", 120, func(t *Transaction) *string { return &t.PayeeID })
	schema.Element(r, "NAME", 130, func(t *Transaction) *string { return &t.Name })
	schema.Child(r, 140, func(t *Transaction) **Payee { return &t.Payee })
	schema.Child(r, 150, func(t *Transaction) **BankAccountDetails { return &t.BankAccountTo }, schema.Named("BANKACCTTO"))
	schema.Child(r, 160, func(t *Transaction) **CreditCardAccountDetails { return &t.CCAccountTo }, schema.Named("CCACCTTO"))
	schema.Element(r, "MEMO", 170, func(t *Transaction) *string { return &t.Memo })
	schema.Child(r, 180, func(t *Transaction) **Currency { return &t.Currency })
	schema.Child(r, 190, func(t *Transaction) **Currency { return &t.OriginalCurrency }, schema.Named("ORIGCURRENCY"))

	schema.Aggregate[TransactionList](r, "BANKTRANLIST", nil)
	schema.Element(r, "DTSTART", 0, func(l *TransactionList) *time.Time { return &l.Start }, schema.Required())
	schema.Element(r, "DTEND", 10, func(l *TransactionList) *time.Time { return &l.End }, schema.Required())
	schema.ChildList(r, 20, func(l *TransactionList) *[]*Transaction { return &l.Transactions })

	schema.Aggregate[Payee](r, "PAYEE", nil)
	schema.Element(r, "NAME", 30, func(p *Payee) *string { return &p.Name })
	schema.Element(r, "ADDR1", 40, func(p *Payee) *string { return &p.Address1 }, schema.Required())
	schema.Element(r, "ADDR2", 50, func(p *Payee) *string { return &p.Address2 })
	schema.Element(r, "ADDR3", 60, func(p *Payee) *string { return &p.Address3 })
	schema.Element(r, "CITY", 70, func(p *Payee) *string { return &p.City }, schema.Required())
	schema.Element(r, "STATE", 80, func(p *Payee) *string { return &p.State }, schema.Required())
	schema.Element(r, "POSTALCODE", 90, func(p *Payee) *string { return &p.PostalCode }, schema.Required())
	schema.Element(r, "COUNTRY", 100, func(p *Payee) *string { return &p.Country }, schema.Required())
	schema.Element(r, "PHONE", 110, func(p *Payee) *string { return &p.Phone })

	schema.Aggregate[Currency](r, "CURRENCY", nil)
	schema.Element(r, "CURSYM", 0, func(c *Currency) *string { return &c.Code }, schema.Required())
	schema.Element(r, "CURRATE", 10, func(c *Currency) *float64 { return &c.ExchangeRate }, schema.Required())
}
