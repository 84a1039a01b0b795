package investment

import (
	"time"

	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// TransactionInfo is INVTRAN, carried by every investment transaction.
type TransactionInfo struct {
	ID         string
	TempID     string
	TradeDate  time.Time
	SettleDate time.Time
	ReversalID string
	Memo       string
}

// SecurityID is SECID.
type SecurityID struct {
	UniqueID     string
	UniqueIDType string
}

// Transaction is any entry of an investment transaction list.
type Transaction interface {
	Info() *TransactionInfo
}

// Buy is INVBUY.
type Buy struct {
	Tran           *TransactionInfo
	Security       *SecurityID
	Units          float64
	UnitPrice      float64
	Markup         *float64
	Commission     *float64
	Fees           *float64
	Total          float64
	SubAccountSec  SubAccount
	SubAccountFund SubAccount
}

// Sell is INVSELL.
type Sell struct {
	Tran           *TransactionInfo
	Security       *SecurityID
	Units          float64
	UnitPrice      float64
	Markdown       *float64
	Commission     *float64
	Fees           *float64
	Total          float64
	SubAccountSec  SubAccount
	SubAccountFund SubAccount
}

type BuyStock struct {
	Buy     *Buy
	BuyType BuyType
}

func (b *BuyStock) Info() *TransactionInfo {
	if b.Buy == nil {
		return nil
	}
	return b.Buy.Tran
}

type SellStock struct {
	Sell     *Sell
	SellType SellType
}

func (s *SellStock) Info() *TransactionInfo {
	if s.Sell == nil {
		return nil
	}
	return s.Sell.Tran
}

// Other holds INVTRAN for the transactions that carry it directly.
type Other struct {
	Tran *TransactionInfo
}

func (o *Other) Info() *TransactionInfo { return o.Tran }

// Income is INCOME: dividends, interest and capital gains distributions.
type Income struct {
	Other
	Security       *SecurityID
	IncomeType     IncomeType
	Total          float64
	SubAccountSec  SubAccount
	SubAccountFund SubAccount
}

// Reinvest is REINVEST.
type Reinvest struct {
	Other
	Security      *SecurityID
	IncomeType    IncomeType
	Total         float64
	SubAccountSec SubAccount
	Units         float64
	UnitPrice     float64
}

// Transfer is TRANSFER: securities moved in or out of the account.
type Transfer struct {
	Other
	Security      *SecurityID
	SubAccountSec SubAccount
	Units         float64
	Action        TransferAction
	PositionType  PositionType
}

// BankTransaction is INVBANKTRAN, a cash movement in the account.
type BankTransaction struct {
	Transaction    *common.Transaction
	SubAccountFund SubAccount
}

// TransactionList is INVTRANLIST.
type TransactionList struct {
	Start            time.Time
	End              time.Time
	Transactions     []Transaction
	BankTransactions []*BankTransaction
}

func registerTransactions(r *schema.Registry) {
	schema.Aggregate[TransactionInfo](r, "INVTRAN", nil)
	schema.Element(r, "FITID", 0, func(t *TransactionInfo) *string { return &t.ID }, schema.Required())
	schema.Element(r, "SRVRTID", 10, func(t *TransactionInfo) *string { return &t.TempID })
	schema.Element(r, "DTTRADE", 20, func(t *TransactionInfo) *time.Time { return &t.TradeDate }, schema.Required())
	schema.Element(r, "DTSETTLE", 30, func(t *TransactionInfo) *time.Time { return &t.SettleDate })
	schema.Element(r, "REVERSALFITID", 40, func(t *TransactionInfo) *string { return &t.ReversalID })
	schema.Element(r, "MEMO", 50, func(t *TransactionInfo) *string { return &t.Memo })

	schema.Aggregate[SecurityID](r, "SECID", nil)
	schema.Element(r, "UNIQUEID", 0, func(s *SecurityID) *string { return &s.UniqueID }, schema.Required())
	schema.Element(r, "UNIQUEIDTYPE", 10, func(s *SecurityID) *string { return &s.UniqueIDType }, schema.Required())

	schema.Aggregate[Buy](r, "INVBUY", nil)
	schema.Child(r, 0, func(b *Buy) **TransactionInfo { return &b.Tran }, schema.Required())
	schema.Child(r, 10, func(b *Buy) **SecurityID { return &b.Security }, schema.Required())
	schema.Element(r, "UNITS", 20, func(b *Buy) *float64 { return &b.Units }, schema.Required())
	schema.Element(r, "UNITPRICE", 30, func(b *Buy) *float64 { return &b.UnitPrice }, schema.Required())
	schema.Element(r, "MARKUP", 40, func(b *Buy) **float64 { return &b.Markup })
	schema.Element(r, "COMMISSION", 50, func(b *Buy) **float64 { return &b.Commission })
	schema.Element(r, "FEES", 60, func(b *Buy) **float64 { return &b.Fees })
	schema.Element(r, "TOTAL", 70, func(b *Buy) *float64 { return &b.Total }, schema.Required())
	schema.Element(r, "SUBACCTSEC", 80, func(b *Buy) *SubAccount { return &b.SubAccountSec }, schema.Required())
	schema.Element(r, "SUBACCTFUND", 90, func(b *Buy) *SubAccount { return &b.SubAccountFund }, schema.Required())

	schema.Aggregate[Sell](r, "INVSELL", nil)
	schema.Child(r, 0, func(s *Sell) **TransactionInfo { return &s.Tran }, schema.Required())
	schema.Child(r, 10, func(s *Sell) **SecurityID { return &s.Security }, schema.Required())
	schema.Element(r, "UNITS", 20, func(s *Sell) *float64 { return &s.Units }, schema.Required())
	schema.Element(r, "UNITPRICE", 30, func(s *Sell) *float64 { return &s.UnitPrice }, schema.Required())
	schema.Element(r, "MARKDOWN", 40, func(s *Sell) **float64 { return &s.Markdown })
	schema.Element(r, "COMMISSION", 50, func(s *Sell) **float64 { return &s.Commission })
	schema.Element(r, "FEES", 60, func(s *Sell) **float64 { return &s.Fees })
	schema.Element(r, "TOTAL", 70, func(s *Sell) *float64 { return &s.Total }, schema.Required())
	schema.Element(r, "SUBACCTSEC", 80, func(s *Sell) *SubAccount { return &s.SubAccountSec }, schema.Required())
	schema.Element(r, "SUBACCTFUND", 90, func(s *Sell) *SubAccount { return &s.SubAccountFund }, schema.Required())

	schema.Aggregate[BuyStock](r, "BUYSTOCK", nil)
	schema.Child(r, 0, func(b *BuyStock) **Buy { return &b.Buy }, schema.Required())
	schema.Element(r, "BUYTYPE", 10, func(b *BuyStock) *BuyType { return &b.BuyType }, schema.Required())

	schema.Aggregate[SellStock](r, "SELLSTOCK", nil)
	schema.Child(r, 0, func(s *SellStock) **Sell { return &s.Sell }, schema.Required())
	schema.Element(r, "SELLTYPE", 10, func(s *SellStock) *SellType { return &s.SellType }, schema.Required())

	schema.Aggregate[Other](r, "", nil)
	schema.Child(r, 0, func(o *Other) **TransactionInfo { return &o.Tran }, schema.Required())

	schema.Aggregate[Income](r, "INCOME", nil)
	schema.Inherit(r, func(i *Income) *Other { return &i.Other })
	schema.Child(r, 10, func(i *Income) **SecurityID { return &i.Security }, schema.Required())
	schema.Element(r, "INCOMETYPE", 20, func(i *Income) *IncomeType { return &i.IncomeType }, schema.Required())
	schema.Element(r, "TOTAL", 30, func(i *Income) *float64 { return &i.Total }, schema.Required())
	schema.Element(r, "SUBACCTSEC", 40, func(i *Income) *SubAccount { return &i.SubAccountSec }, schema.Required())
	schema.Element(r, "SUBACCTFUND", 50, func(i *Income) *SubAccount { return &i.SubAccountFund }, schema.Required())

	schema.Aggregate[Reinvest](r, "REINVEST", nil)
	schema.Inherit(r, func(i *Reinvest) *Other { return &i.Other })
	schema.Child(r, 10, func(i *Reinvest) **SecurityID { return &i.Security }, schema.Required())
	schema.Element(r, "INCOMETYPE", 20, func(i *Reinvest) *IncomeType { return &i.IncomeType }, schema.Required())
	schema.Element(r, "TOTAL", 30, func(i *Reinvest) *float64 { return &i.Total }, schema.Required())
	schema.Element(r, "SUBACCTSEC", 40, func(i *Reinvest) *SubAccount { return &i.SubAccountSec }, schema.Required())
	schema.Element(r, "UNITS", 50, func(i *Reinvest) *float64 { return &i.Units }, schema.Required())
	schema.Element(r, "UNITPRICE", 60, func(i *Reinvest) *float64 { return &i.UnitPrice }, schema.Required())

	schema.Aggregate[Transfer](r, "TRANSFER", nil)
	schema.Inherit(r, func(t *Transfer) *Other { return &t.Other })
	schema.Child(r, 10, func(t *Transfer) **SecurityID { return &t.Security }, schema.Required())
	schema.Element(r, "SUBACCTSEC", 20, func(t *Transfer) *SubAccount { return &t.SubAccountSec }, schema.Required())
	schema.Element(r, "UNITS", 30, func(t *Transfer) *float64 { return &t.Units }, schema.Required())
	schema.Element(r, "TFERACTION", 40, func(t *Transfer) *TransferAction { return &t.Action }, schema.Required())
	schema.Element(r, "POSTYPE", 50, func(t *Transfer) *PositionType { return &t.PositionType }, schema.Required())

	schema.Aggregate[BankTransaction](r, "INVBANKTRAN", nil)
	schema.Child(r, 10, func(b *BankTransaction) **common.Transaction { return &b.Transaction }, schema.Required())
	schema.Element(r, "SUBACCTFUND", 20, func(b *BankTransaction) *SubAccount { return &b.SubAccountFund }, schema.Required())

	schema.Aggregate[TransactionList](r, "INVTRANLIST", nil)
	schema.Element(r, "DTSTART", 0, func(l *TransactionList) *time.Time { return &l.Start }, schema.Required())
	schema.Element(r, "DTEND", 10, func(l *TransactionList) *time.Time { return &l.End }, schema.Required())
	schema.ChildList(r, 20, func(l *TransactionList) *[]Transaction { return &l.Transactions })
	schema.ChildList(r, 30, func(l *TransactionList) *[]*BankTransaction { return &l.BankTransactions })
}
