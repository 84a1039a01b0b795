// Package client talks to financial institutions: it builds signed-on
// request envelopes, sends them over a Connection and checks the
// statuses and transaction ids of the responses.
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/signadot/go-ofx/domain/banking"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/creditcard"
	"github.com/signadot/go-ofx/domain/envelope"
	"github.com/signadot/go-ofx/domain/investment"
	"github.com/signadot/go-ofx/domain/profile"
	"github.com/signadot/go-ofx/domain/signon"
	"github.com/signadot/go-ofx/domain/signup"
)

var (
	ErrNoResponse          = errors.New("no OFX response")
	ErrTransaction         = errors.New("transaction mismatch")
	ErrUnsupportedSecurity = errors.New("unsupported OFX security")
)

// AnonymousUser is the user id sent with profile requests.
const AnonymousUser = "anonymous00000000000000000000000"

// Service runs requests against one institution.
type Service struct {
	data       *FinancialInstitutionData
	conn       Connection
	appID      string
	appVersion string
	logger     *zap.Logger
	now        func() time.Time
}

type ServiceOption func(*Service)

// WithApplication sets APPID and APPVER, QWIN 2300 by default since
// many institutions only answer known applications.
func WithApplication(id, version string) ServiceOption {
	return func(s *Service) { s.appID, s.appVersion = id, version }
}

func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(data *FinancialInstitutionData, conn Connection, opts ...ServiceOption) *Service {
	s := &Service{
		data:       data,
		conn:       conn,
		appID:      "QWIN",
		appVersion: "2300",
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Data() *FinancialInstitutionData {
	return s.data
}

// Profile reads the institution profile.
func (s *Service) Profile(ctx context.Context) (*profile.Response, error) {
	req := s.request(AnonymousUser, AnonymousUser)
	tx := &profile.RequestTransaction{
		TransactionWrappedRequest: common.NewWrappedRequest(),
		Message:                   &profile.Request{Routing: profile.RoutingNone, LastUpdated: time.Unix(0, 0).UTC()},
	}
	req.Add(&profile.RequestMessageSet{Profile: tx})
	res, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	set := res.Profile()
	if set == nil || set.Profile == nil || set.Profile.Message == nil {
		return nil, fmt.Errorf("%w: no profile message", ErrNoResponse)
	}
	return set.Profile.Message, nil
}

// AccountList reads the accounts of user.
func (s *Service) AccountList(ctx context.Context, user, password string) ([]*signup.AccountProfile, error) {
	req := s.request(user, password)
	tx := &signup.AccountInfoRequestTransaction{
		TransactionWrappedRequest: common.NewWrappedRequest(),
		Message:                   &signup.AccountInfoRequest{LastUpdated: time.Unix(0, 0).UTC()},
	}
	req.Add(&signup.RequestMessageSet{AccountInfo: tx})
	res, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	set := res.Signup()
	if set == nil || set.AccountInfo == nil || set.AccountInfo.Message == nil {
		return nil, fmt.Errorf("%w: no account info message", ErrNoResponse)
	}
	return set.AccountInfo.Message.Accounts, nil
}

func statementRange(start, end time.Time) common.StatementRequest {
	return common.StatementRequest{Range: &common.StatementRange{Start: start, End: end, Include: true}}
}

// BankStatement downloads the statement of a bank account between start
// and end.
func (s *Service) BankStatement(ctx context.Context, user, password string, acct *common.BankAccountDetails, start, end time.Time) (*banking.StatementResponse, error) {
	req := s.request(user, password)
	tx := &banking.StatementRequestTransaction{
		TransactionWrappedRequest: common.NewWrappedRequest(),
		Message:                   &banking.StatementRequest{Account: acct, StatementRequest: statementRange(start, end)},
	}
	req.Add(&banking.RequestMessageSet{StatementRequests: []*banking.StatementRequestTransaction{tx}})
	res, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	set := res.Banking()
	if set == nil || len(set.StatementResponses) == 0 || set.StatementResponses[0].Message == nil {
		return nil, fmt.Errorf("%w: no bank statement", ErrNoResponse)
	}
	return set.StatementResponses[0].Message, nil
}

// CreditCardStatement downloads the statement of a credit card account.
func (s *Service) CreditCardStatement(ctx context.Context, user, password string, acct *common.CreditCardAccountDetails, start, end time.Time) (*creditcard.StatementResponse, error) {
	req := s.request(user, password)
	tx := &creditcard.StatementRequestTransaction{
		TransactionWrappedRequest: common.NewWrappedRequest(),
		Message:                   &creditcard.StatementRequest{Account: acct, StatementRequest: statementRange(start, end)},
	}
	req.Add(&creditcard.RequestMessageSet{StatementRequests: []*creditcard.StatementRequestTransaction{tx}})
	res, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	set := res.CreditCard()
	if set == nil || len(set.StatementResponses) == 0 || set.StatementResponses[0].Message == nil {
		return nil, fmt.Errorf("%w: no credit card statement", ErrNoResponse)
	}
	return set.StatementResponses[0].Message, nil
}

// InvestmentStatement downloads transactions, positions and balances of
// a brokerage account.
func (s *Service) InvestmentStatement(ctx context.Context, user, password string, acct *investment.AccountDetails, start, end time.Time) (*investment.StatementResponse, error) {
	req := s.request(user, password)
	tx := &investment.StatementRequestTransaction{
		TransactionWrappedRequest: common.NewWrappedRequest(),
		Message: &investment.StatementRequest{
			Account:          acct,
			StatementRequest: statementRange(start, end),
			IncludePosition:  &investment.IncludePosition{Include: true},
			IncludeBalance:   true,
		},
	}
	req.Add(&investment.RequestMessageSet{StatementRequests: []*investment.StatementRequestTransaction{tx}})
	res, err := s.send(ctx, req)
	if err != nil {
		return nil, err
	}
	set := res.Investment()
	if set == nil || len(set.StatementResponses) == 0 || set.StatementResponses[0].Message == nil {
		return nil, fmt.Errorf("%w: no investment statement", ErrNoResponse)
	}
	return set.StatementResponses[0].Message, nil
}

// request returns an envelope holding a signon request for user.
func (s *Service) request(user, password string) *envelope.RequestEnvelope {
	so := signon.NewRequest(user, password, s.appID, s.appVersion)
	so.Timestamp = s.now()
	if s.data.Organization != "" {
		so.Institution = &signon.FinancialInstitution{Organization: s.data.Organization, ID: s.data.FID}
	}
	return envelope.NewRequest(&signon.RequestMessageSet{Signon: so})
}

func (s *Service) send(ctx context.Context, req *envelope.RequestEnvelope) (*envelope.ResponseEnvelope, error) {
	res, err := s.conn.Send(ctx, req, s.data.URL)
	if err != nil {
		return nil, err
	}
	if err := Validate(req, res); err != nil {
		s.logger.Warn("invalid response", zap.String("fi", s.data.ID), zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Validate checks res answers req: every request message set has a
// response set, every response status is successful and the TRNUIDs of
// the responses are exactly those of the requests.
func Validate(req *envelope.RequestEnvelope, res *envelope.ResponseEnvelope) error {
	if res.Security != "" && res.Security != "NONE" {
		return fmt.Errorf("%w: %s", ErrUnsupportedSecurity, res.Security)
	}
	for rqSet := range req.MessageSets.All() {
		rsSet := res.MessageSet(rqSet.Type())
		if rsSet == nil {
			return fmt.Errorf("%w for the %s request", ErrNoResponse, rqSet.Type())
		}
		if so, ok := rsSet.(*signon.ResponseMessageSet); ok && so.Signon == nil {
			return fmt.Errorf("%w: no signon response", ErrNoResponse)
		}
		var uids []string
		pending := map[string]bool{}
		for _, m := range rqSet.Requests() {
			if w, ok := m.(interface {
				Wrapped() *common.TransactionWrappedRequest
			}); ok {
				uids = append(uids, w.Wrapped().UID)
				pending[w.Wrapped().UID] = true
			}
		}
		for _, h := range rsSet.Responses() {
			st := h.StatusOf()
			if st == nil {
				return fmt.Errorf("%w: %T has no status", ErrNoResponse, h)
			}
			if st.Code != common.StatusSuccess {
				return &common.StatusError{Status: *st}
			}
			w, ok := h.(interface {
				Wrapped() *common.TransactionWrappedResponse
			})
			if !ok {
				continue
			}
			uid := w.Wrapped().UID
			if !pending[uid] {
				return fmt.Errorf("%w: response to unknown transaction %q", ErrTransaction, uid)
			}
			delete(pending, uid)
		}
		var missing []string
		for _, uid := range uids {
			if pending[uid] {
				missing = append(missing, strconv.Quote(uid))
			}
		}
		if len(missing) != 0 {
			return fmt.Errorf("%w: no response to transaction %s", ErrTransaction, strings.Join(missing, ", "))
		}
	}
	return nil
}
