package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/signadot/go-ofx/domain/banking"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/envelope"
	"github.com/signadot/go-ofx/domain/signon"
	"github.com/signadot/go-ofx/domain/signup"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/gomap"
)

type responder func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope

func fakeFI(t *testing.T, d format.Dialect, respond responder) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != ContentType {
			t.Errorf("unexpected content type %q", ct)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
			return
		}
		req, err := gomap.Unmarshal[envelope.RequestEnvelope](body, gomap.Strict(), gomap.WithDialect(format.Detect(body)))
		if err != nil {
			t.Errorf("bad request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := gomap.MarshalTo(w, respond(req), d); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}))
}

func signonOK(code common.StatusCode) *signon.ResponseMessageSet {
	return &signon.ResponseMessageSet{Signon: &signon.Response{
		Status:    common.NewStatus(code),
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Language:  "ENG",
	}}
}

var (
	t1 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
)

func statement(uid string) *banking.ResponseMessageSet {
	return &banking.ResponseMessageSet{StatementResponses: []*banking.StatementResponseTransaction{{
		TransactionWrappedResponse: common.TransactionWrappedResponse{UID: uid, Status: common.NewStatus(common.StatusSuccess)},
		Message: &banking.StatementResponse{
			StatementResponse: common.StatementResponse{
				CurrencyCode: "USD",
				TransactionList: &common.TransactionList{
					Start: t1,
					End:   t2,
					Transactions: []*common.Transaction{
						{Type: common.TxDebit, DatePosted: t1, Amount: -42.5, ID: "a", Name: "GROCER"},
						{Type: common.TxCredit, DatePosted: t2, Amount: 1000, ID: "b", Name: "PAYROLL"},
					},
				},
				LedgerBalance: &common.BalanceInfo{Amount: 957.5, AsOf: t2},
			},
		},
	}}}
}

func bankRequestUID(t *testing.T, req *envelope.RequestEnvelope) string {
	t.Helper()
	set, ok := req.MessageSet(common.BankingMessageSet).(*banking.RequestMessageSet)
	if !ok || len(set.StatementRequests) != 1 {
		t.Errorf("expected one bank statement request, got %+v", set)
		return ""
	}
	return set.StatementRequests[0].UID
}

var acct = &common.BankAccountDetails{BankID: "111000025", AccountID: "42", AccountType: common.Checking}

func TestBankStatement(t *testing.T) {
	for _, d := range format.AllDialects() {
		t.Run(d.String(), func(t *testing.T) {
			srv := fakeFI(t, d, func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope {
				so := req.Signon().Signon
				if so.UserID != "jo" || so.Institution.Organization != "MYBANK" || so.ApplicationID != "QWIN" {
					t.Errorf("unexpected signon %+v", so)
				}
				return envelope.NewResponse(signonOK(common.StatusSuccess), statement(bankRequestUID(t, req)))
			})
			defer srv.Close()

			core, logs := observer.New(zapcore.InfoLevel)
			conn := NewHTTPConnection(WithConnLogger(zap.New(core)))
			svc := NewService(&FinancialInstitutionData{ID: "mybank", Organization: "MYBANK", URL: srv.URL}, conn)
			stmt, err := svc.BankStatement(context.Background(), "jo", "secret", acct, t1, t2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var ids []string
			for _, tx := range stmt.Transactions() {
				ids = append(ids, tx.ID)
			}
			if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
				t.Errorf("transactions (-want +got):\n%s", diff)
			}
			if stmt.LedgerBalance.Amount != 957.5 {
				t.Errorf("ledger balance %v", stmt.LedgerBalance.Amount)
			}
			if n := logs.FilterMessage("received response").Len(); n != 1 {
				t.Errorf("expected 1 response log, got %d", n)
			}
		})
	}
}

func TestAccountList(t *testing.T) {
	srv := fakeFI(t, format.V1, func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope {
		set := req.MessageSet(common.SignupMessageSet).(*signup.RequestMessageSet)
		return envelope.NewResponse(signonOK(common.StatusSuccess), &signup.ResponseMessageSet{
			AccountInfo: &signup.AccountInfoResponseTransaction{
				TransactionWrappedResponse: common.TransactionWrappedResponse{
					UID:    set.AccountInfo.UID,
					Status: common.NewStatus(common.StatusSuccess),
				},
				Message: &signup.AccountInfoResponse{
					LastUpdated: t1,
					Accounts: []*signup.AccountProfile{{
						Description: "Checking",
						Bank: &banking.AccountInfo{
							Account:            acct,
							SupportsTxDownload: true,
							Status:             common.AccountActive,
						},
					}},
				},
			},
		})
	})
	defer srv.Close()

	svc := NewService(&FinancialInstitutionData{ID: "mybank", Organization: "MYBANK", URL: srv.URL}, NewHTTPConnection())
	accts, err := svc.AccountList(context.Background(), "jo", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accts) != 1 || accts[0].Bank == nil {
		t.Fatalf("unexpected accounts %+v", accts)
	}
	if diff := cmp.Diff(acct, accts[0].Bank.Account); diff != "" {
		t.Errorf("account mismatch (-want +got):\n%s", diff)
	}
}

func TestSignonRejected(t *testing.T) {
	srv := fakeFI(t, format.V1, func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope {
		return envelope.NewResponse(signonOK(common.StatusSignonInvalid), statement(bankRequestUID(t, req)))
	})
	defer srv.Close()

	svc := NewService(&FinancialInstitutionData{ID: "mybank", URL: srv.URL}, NewHTTPConnection())
	_, err := svc.BankStatement(context.Background(), "jo", "wrong", acct, t1, t2)
	var se *common.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected status error, got %v", err)
	}
	if se.Status.Code != common.StatusSignonInvalid {
		t.Errorf("code %d", se.Status.Code)
	}
}

func TestTransactionMismatch(t *testing.T) {
	srv := fakeFI(t, format.V1, func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope {
		return envelope.NewResponse(signonOK(common.StatusSuccess), statement("not-the-uid"))
	})
	defer srv.Close()

	svc := NewService(&FinancialInstitutionData{ID: "mybank", URL: srv.URL}, NewHTTPConnection())
	_, err := svc.BankStatement(context.Background(), "jo", "secret", acct, t1, t2)
	if !errors.Is(err, ErrTransaction) {
		t.Fatalf("expected transaction error, got %v", err)
	}
}

func TestMissingResponseSet(t *testing.T) {
	srv := fakeFI(t, format.V1, func(req *envelope.RequestEnvelope) *envelope.ResponseEnvelope {
		return envelope.NewResponse(signonOK(common.StatusSuccess))
	})
	defer srv.Close()

	svc := NewService(&FinancialInstitutionData{ID: "mybank", URL: srv.URL}, NewHTTPConnection())
	_, err := svc.BankStatement(context.Background(), "jo", "secret", acct, t1, t2)
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected no response error, got %v", err)
	}
}

func TestHTTPError(t *testing.T) {
	for _, tc := range []struct {
		code   int
		client bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusServiceUnavailable, false},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.code)
		}))
		svc := NewService(&FinancialInstitutionData{ID: "mybank", URL: srv.URL}, NewHTTPConnection())
		_, err := svc.Profile(context.Background())
		srv.Close()
		var he *HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("%d: expected HTTP error, got %v", tc.code, err)
		}
		if he.StatusCode != tc.code || he.IsClient() != tc.client {
			t.Errorf("%d: unexpected %+v", tc.code, he)
		}
	}
}

func TestEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	svc := NewService(&FinancialInstitutionData{ID: "mybank", URL: srv.URL}, NewHTTPConnection())
	_, err := svc.Profile(context.Background())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected no response error, got %v", err)
	}
}

func TestValidateMissingTransactions(t *testing.T) {
	var rqs []*banking.StatementRequestTransaction
	for _, uid := range []string{"c", "a", "b"} {
		rqs = append(rqs, &banking.StatementRequestTransaction{
			TransactionWrappedRequest: common.TransactionWrappedRequest{UID: uid},
			Message:                   &banking.StatementRequest{Account: acct},
		})
	}
	req := envelope.NewRequest(
		&signon.RequestMessageSet{Signon: signon.NewRequest("jo", "secret", "QWIN", "1700")},
		&banking.RequestMessageSet{StatementRequests: rqs})
	res := envelope.NewResponse(signonOK(common.StatusSuccess), statement("a"))

	for range 10 {
		err := Validate(req, res)
		if !errors.Is(err, ErrTransaction) {
			t.Fatalf("expected transaction error, got %v", err)
		}
		want := `transaction mismatch: no response to transaction "c", "b"`
		if got := err.Error(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
