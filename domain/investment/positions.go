package investment

import (
	"time"

	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// PositionInfo is INVPOS.
type PositionInfo struct {
	Security    *SecurityID
	HeldIn      SubAccount
	Type        PositionType
	Units       float64
	UnitPrice   float64
	MarketValue float64
	PriceAsOf   time.Time
	Memo        string
}

// Position is any entry of a position list.
type Position interface {
	Info() *PositionInfo
}

// BasePosition holds INVPOS for every position entry.
type BasePosition struct {
	Pos *PositionInfo
}

func (p *BasePosition) Info() *PositionInfo { return p.Pos }

// StockPosition is POSSTOCK.
type StockPosition struct {
	BasePosition
	UnitsStreet *float64
	UnitsUser   *float64
	Reinvest    *bool
}

// MutualFundPosition is POSMF.
type MutualFundPosition struct {
	BasePosition
	UnitsStreet      *float64
	UnitsUser        *float64
	ReinvestDividend *bool
	ReinvestCapGains *bool
}

// OtherPosition is POSOTHER.
type OtherPosition struct {
	BasePosition
}

// PositionList is INVPOSLIST.
type PositionList struct {
	Positions []Position
}

type SubAccount string

const (
	SubAccountCash   SubAccount = "CASH"
	SubAccountMargin SubAccount = "MARGIN"
	SubAccountShort  SubAccount = "SHORT"
	SubAccountOther  SubAccount = "OTHER"
)

func (s SubAccount) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *SubAccount) UnmarshalText(b []byte) error {
	return common.ParseEnum(s, b, []SubAccount{SubAccountCash, SubAccountMargin, SubAccountShort, SubAccountOther})
}

type PositionType string

const (
	Long  PositionType = "LONG"
	Short PositionType = "SHORT"
)

func (p PositionType) MarshalText() ([]byte, error) { return []byte(p), nil }

func (p *PositionType) UnmarshalText(b []byte) error {
	return common.ParseEnum(p, b, []PositionType{Long, Short})
}

type BuyType string

const (
	BuyRegular BuyType = "BUY"
	BuyToCover BuyType = "BUYTOCOVER"
)

func (t BuyType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *BuyType) UnmarshalText(b []byte) error {
	return common.ParseEnum(t, b, []BuyType{BuyRegular, BuyToCover})
}

type SellType string

const (
	SellRegular SellType = "SELL"
	SellShort   SellType = "SELLSHORT"
)

func (t SellType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *SellType) UnmarshalText(b []byte) error {
	return common.ParseEnum(t, b, []SellType{SellRegular, SellShort})
}

type IncomeType string

const (
	CapGainLong   IncomeType = "CGLONG"
	CapGainShort  IncomeType = "CGSHORT"
	Dividend      IncomeType = "DIV"
	Interest      IncomeType = "INTEREST"
	Miscellaneous IncomeType = "MISC"
)

func (t IncomeType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *IncomeType) UnmarshalText(b []byte) error {
	return common.ParseEnum(t, b, []IncomeType{CapGainLong, CapGainShort, Dividend, Interest, Miscellaneous})
}

type TransferAction string

const (
	TransferIn  TransferAction = "IN"
	TransferOut TransferAction = "OUT"
)

func (a TransferAction) MarshalText() ([]byte, error) { return []byte(a), nil }

func (a *TransferAction) UnmarshalText(b []byte) error {
	return common.ParseEnum(a, b, []TransferAction{TransferIn, TransferOut})
}

func registerPositions(r *schema.Registry) {
	schema.Aggregate[PositionInfo](r, "INVPOS", nil)
	schema.Child(r, 0, func(p *PositionInfo) **SecurityID { return &p.Security }, schema.Required())
	schema.Element(r, "HELDINACCT", 10, func(p *PositionInfo) *SubAccount { return &p.HeldIn }, schema.Required())
	schema.Element(r, "POSTYPE", 20, func(p *PositionInfo) *PositionType { return &p.Type }, schema.Required())
	schema.Element(r, "UNITS", 30, func(p *PositionInfo) *float64 { return &p.Units }, schema.Required())
	schema.Element(r, "UNITPRICE", 40, func(p *PositionInfo) *float64 { return &p.UnitPrice }, schema.Required())
	schema.Element(r, "MKTVAL", 50, func(p *PositionInfo) *float64 { return &p.MarketValue }, schema.Required())
	schema.Element(r, "DTPRICEASOF", 60, func(p *PositionInfo) *time.Time { return &p.PriceAsOf }, schema.Required())
	schema.Element(r, "MEMO", 70, func(p *PositionInfo) *string { return &p.Memo })

	schema.Aggregate[BasePosition](r, "", nil)
	schema.Child(r, 0, func(p *BasePosition) **PositionInfo { return &p.Pos }, schema.Required())

	schema.Aggregate[StockPosition](r, "POSSTOCK", nil)
	schema.Inherit(r, func(p *StockPosition) *BasePosition { return &p.BasePosition })
	schema.Element(r, "UNITSSTREET", 10, func(p *StockPosition) **float64 { return &p.UnitsStreet })
	schema.Element(r, "UNITSUSER", 20, func(p *StockPosition) **float64 { return &p.UnitsUser })
	schema.Element(r, "REINVDIV", 30, func(p *StockPosition) **bool { return &p.Reinvest })

	schema.Aggregate[MutualFundPosition](r, "POSMF", nil)
	schema.Inherit(r, func(p *MutualFundPosition) *BasePosition { return &p.BasePosition })
	schema.Element(r, "UNITSSTREET", 10, func(p *MutualFundPosition) **float64 { return &p.UnitsStreet })
	schema.Element(r, "UNITSUSER", 20, func(p *MutualFundPosition) **float64 { return &p.UnitsUser })
	schema.Element(r, "REINVDIV", 30, func(p *MutualFundPosition) **bool { return &p.ReinvestDividend })
	schema.Element(r, "REINVCG", 40, func(p *MutualFundPosition) **bool { return &p.ReinvestCapGains })

	schema.Aggregate[OtherPosition](r, "POSOTHER", nil)
	schema.Inherit(r, func(p *OtherPosition) *BasePosition { return &p.BasePosition })

	schema.Aggregate[PositionList](r, "INVPOSLIST", nil)
	schema.ChildList(r, 0, func(l *PositionList) *[]Position { return &l.Positions })
}
