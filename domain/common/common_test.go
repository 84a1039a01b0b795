package common

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-ofx/gomap"
	"github.com/signadot/go-ofx/schema"
)

const v1Head = "OFXHEADER:100\r\nDATA:OFXSGML\r\nVERSION:102\r\nSECURITY:NONE\r\n" +
	"ENCODING:USASCII\r\nCHARSET:1252\r\nCOMPRESSION:NONE\r\n" +
	"OLDFILEUID:NONE\r\nNEWFILEUID:NONE\r\n\r\n"

func TestStatusErr(t *testing.T) {
	if err := NewStatus(StatusSuccess).Err(); err != nil {
		t.Errorf("success: unexpected error %v", err)
	}
	if err := (*Status)(nil).Err(); err != nil {
		t.Errorf("nil: unexpected error %v", err)
	}
	err := NewStatus(StatusSignonInvalid).Err()
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Status.Code != StatusSignonInvalid {
		t.Errorf("code %d", se.Status.Code)
	}
	if got, want := err.Error(), "status 15500: Invalid signon"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got := StatusCode(4242).DefaultSeverity(); got != SeverityError {
		t.Errorf("unknown code severity %v", got)
	}
}

func TestEnums(t *testing.T) {
	var tt TransactionType
	if err := tt.UnmarshalText([]byte("directdep")); err != nil || tt != TxDirectDep {
		t.Errorf("got %q %v", tt, err)
	}
	if err := tt.UnmarshalText([]byte("BOGUS")); err == nil {
		t.Errorf("expected error for unknown transaction type")
	}
	var at AccountType
	if err := at.UnmarshalText([]byte("MONEYMRKT")); err != nil || at != MoneyMarket {
		t.Errorf("got %q %v", at, err)
	}
}

func TestMessageSetTypes(t *testing.T) {
	types := []MessageSetType{ProfileMessageSet, SignonMessageSet, BankingMessageSet}
	slices.SortFunc(types, func(a, b MessageSetType) int { return int(a - b) })
	want := []MessageSetType{SignonMessageSet, BankingMessageSet, ProfileMessageSet}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got := InvestmentSecurityMessageSet.String(); got != "investment_security" {
		t.Errorf("got %q", got)
	}
	if got := MessageSetType(99).String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}

func TestTransactionList(t *testing.T) {
	doc := v1Head + `<BANKTRANLIST>
<DTSTART>20070101<DTEND>20070201
<STMTTRN><TRNTYPE>DEBIT<DTPOSTED>20070105<TRNAMT>-12.00<FITID>1
<PAYEE><NAME>Shop<ADDR1>1 Road<CITY>Town<STATE>CA<POSTALCODE>90000<COUNTRY>USA</PAYEE>
<CURRENCY><CURSYM>EUR<CURRATE>1.1</CURRENCY>
</STMTTRN>
<STMTTRN><TRNTYPE>DEBIT<DTPOSTED>20070106<TRNAMT>-3<FITID>2
<BANKACCTTO><BANKID>9<ACCTID>8<ACCTTYPE>SAVINGS</BANKACCTTO>
</STMTTRN>
</BANKTRANLIST>
`
	l, err := gomap.Unmarshal[TransactionList]([]byte(doc), gomap.Strict())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(l.Transactions))
	}
	first, second := l.Transactions[0], l.Transactions[1]
	if first.Payee == nil || first.Payee.City != "Town" || first.Currency.ExchangeRate != 1.1 {
		t.Errorf("unexpected first transaction %+v", first)
	}
	want := &BankAccountDetails{BankID: "9", AccountID: "8", AccountType: Savings}
	if diff := cmp.Diff(want, second.BankAccountTo); diff != "" {
		t.Errorf("BANKACCTTO mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionMissingFITID(t *testing.T) {
	doc := v1Head + "<STMTTRN><TRNTYPE>DEBIT<DTPOSTED>20070105<TRNAMT>-1</STMTTRN>"
	_, err := gomap.Unmarshal[Transaction]([]byte(doc))
	var ve *gomap.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"FITID"}, ve.Fields); diff != "" {
		t.Errorf("missing fields (-want +got):\n%s", diff)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := schema.NewRegistry()
	Register(r)
	Register(r)
	m, err := r.Resolve(schema.TypeFor[Transaction]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Fields) != 20 {
		t.Errorf("expected 20 fields, got %d", len(m.Fields))
	}
}
