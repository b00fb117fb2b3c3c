package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/domain/model/returns"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// In-memory repository fakes. Aggregates are stored by pointer, so handler
// mutations are visible without a round trip; Update calls are still counted
// to assert persistence happened.

type fakeOrderRepo struct {
	orders  map[string]*order.Order
	updates int
	failOn  string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*order.Order{}}
}

func (r *fakeOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.orders[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	if r.failOn == aggregate.ID().String() {
		return errs.NewStateConflictError("order", "claimed", "claimed")
	}
	r.updates++
	r.orders[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	ord, ok := r.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return ord, nil
}

func (r *fakeOrderRepo) GetAllUnassigned(_ context.Context) ([]*order.Order, error) {
	var out []*order.Order
	for _, ord := range r.orders {
		if ord.Assignment() == nil {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAllAwaitingAcceptance(_ context.Context, assignedBefore time.Time) ([]*order.Order, error) {
	var out []*order.Order
	for _, ord := range r.orders {
		a := ord.Assignment()
		if a != nil && a.SubStatus() == order.SubAssigned && !a.AssignedAt().After(assignedBefore) {
			out = append(out, ord)
		}
	}
	return out, nil
}

type fakeAgentRepo struct {
	agents  map[string]*agent.Agent
	updates int
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: map[string]*agent.Agent{}}
}

func (r *fakeAgentRepo) Add(_ context.Context, aggregate *agent.Agent) error {
	r.agents[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeAgentRepo) Update(_ context.Context, aggregate *agent.Agent) error {
	r.updates++
	r.agents[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeAgentRepo) Get(_ context.Context, id kernel.UUID) (*agent.Agent, error) {
	ag, ok := r.agents[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("agentID", id)
	}
	return ag, nil
}

func (r *fakeAgentRepo) GetAllActive(_ context.Context) ([]*agent.Agent, error) {
	var out []*agent.Agent
	for _, ag := range r.agents {
		if ag.IsActive() {
			out = append(out, ag)
		}
	}
	return out, nil
}

type fakeOtpRepo struct {
	records map[string]*otp.Otp
	issued  []string
	updates int
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{records: map[string]*otp.Otp{}}
}

func (r *fakeOtpRepo) Add(_ context.Context, aggregate *otp.Otp) error {
	r.records[aggregate.ID().String()] = aggregate
	r.issued = append(r.issued, aggregate.ID().String())
	return nil
}

func (r *fakeOtpRepo) Update(_ context.Context, aggregate *otp.Otp) error {
	r.updates++
	r.records[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeOtpRepo) Get(_ context.Context, id kernel.UUID) (*otp.Otp, error) {
	record, ok := r.records[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("otpID", id)
	}
	return record, nil
}

func (r *fakeOtpRepo) GetActiveForOrder(_ context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Otp, error) {
	for _, record := range r.records {
		if record.OrderID().IsEqual(orderID) && record.Purpose() == purpose && record.Status() == otp.StatusPending {
			return record, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID)
}

func (r *fakeOtpRepo) GetLatestForOrder(_ context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Otp, error) {
	for i := len(r.issued) - 1; i >= 0; i-- {
		record := r.records[r.issued[i]]
		if record.OrderID().IsEqual(orderID) && record.Purpose() == purpose {
			return record, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID)
}

type fakeReturnRepo struct {
	returns map[string]*returns.Return
	updates int
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: map[string]*returns.Return{}}
}

func (r *fakeReturnRepo) Add(_ context.Context, aggregate *returns.Return) error {
	r.returns[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeReturnRepo) Update(_ context.Context, aggregate *returns.Return) error {
	r.updates++
	r.returns[aggregate.ID().String()] = aggregate
	return nil
}

func (r *fakeReturnRepo) Get(_ context.Context, id kernel.UUID) (*returns.Return, error) {
	ret, ok := r.returns[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("returnID", id)
	}
	return ret, nil
}

func (r *fakeReturnRepo) GetByOrder(_ context.Context, orderID kernel.UUID) (*returns.Return, error) {
	for _, ret := range r.returns {
		if ret.OrderID().IsEqual(orderID) {
			return ret, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderID", orderID)
}

// fakeUoW satisfies every UoW flavor the handlers declare.
type fakeUoW struct {
	orderRepo  *fakeOrderRepo
	agentRepo  *fakeAgentRepo
	otpRepo    *fakeOtpRepo
	returnRepo *fakeReturnRepo

	begins    int
	commits   int
	rollbacks int
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		orderRepo:  newFakeOrderRepo(),
		agentRepo:  newFakeAgentRepo(),
		otpRepo:    newFakeOtpRepo(),
		returnRepo: newFakeReturnRepo(),
	}
}

func (u *fakeUoW) Begin(context.Context) error    { u.begins++; return nil }
func (u *fakeUoW) Commit(context.Context) error   { u.commits++; return nil }
func (u *fakeUoW) Rollback(context.Context) error { u.rollbacks++; return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository   { return u.orderRepo }
func (u *fakeUoW) AgentRepository() ports.AgentRepository   { return u.agentRepo }
func (u *fakeUoW) OtpRepository() ports.OtpRepository       { return u.otpRepo }
func (u *fakeUoW) ReturnRepository() ports.ReturnRepository { return u.returnRepo }

type fakeOrderUoWFactory struct{ uow *fakeUoW }

func (f fakeOrderUoWFactory) Create() OrderUoW { return f.uow }

type fakeAgentUoWFactory struct{ uow *fakeUoW }

func (f fakeAgentUoWFactory) Create() AgentUoW { return f.uow }

type fakeDispatchUoWFactory struct{ uow *fakeUoW }

func (f fakeDispatchUoWFactory) Create() DispatchUoW { return f.uow }

type fakeOtpUoWFactory struct{ uow *fakeUoW }

func (f fakeOtpUoWFactory) Create() OtpUoW { return f.uow }

type fakeFulfillmentUoWFactory struct{ uow *fakeUoW }

func (f fakeFulfillmentUoWFactory) Create() FulfillmentUoW { return f.uow }

type fakeReturnUoWFactory struct{ uow *fakeUoW }

func (f fakeReturnUoWFactory) Create() ReturnUoW { return f.uow }

// fakeSmsGateway scripts provider behavior per test.
type fakeSmsGateway struct {
	sendErr       error
	rejectSend    bool
	verifyErr     error
	verifyDenied  bool
	verifyExpired bool
	sent          []string
	verified      []string
}

func (g *fakeSmsGateway) Send(_ context.Context, phone kernel.Phone, _ string, params map[string]string) (ports.SmsDispatchResult, error) {
	if g.sendErr != nil {
		return ports.SmsDispatchResult{}, g.sendErr
	}
	if g.rejectSend {
		return ports.SmsDispatchResult{}, nil
	}
	g.sent = append(g.sent, phone.E164()+":"+params["code"])
	return ports.SmsDispatchResult{Accepted: true, ProviderRequestID: "req-1"}, nil
}

func (g *fakeSmsGateway) Verify(_ context.Context, phone kernel.Phone, code string) (ports.SmsVerifyResult, error) {
	if g.verifyErr != nil {
		return ports.SmsVerifyResult{}, g.verifyErr
	}
	if g.verifyExpired {
		return ports.SmsVerifyResult{Expired: true, Message: "code expired"}, nil
	}
	if g.verifyDenied {
		return ports.SmsVerifyResult{Message: "provider mismatch"}, nil
	}
	g.verified = append(g.verified, phone.E164()+":"+code)
	return ports.SmsVerifyResult{Verified: true}, nil
}

// fakeRateLimiter denies once primed.
type fakeRateLimiter struct {
	denied bool
	calls  []string
}

func (l *fakeRateLimiter) Allow(key string) error {
	l.calls = append(l.calls, key)
	if l.denied {
		return errs.NewRateLimitError(key, 0)
	}
	return nil
}

// capturePublisher records all fanned-out events.
type capturePublisher struct {
	events     []ports.Event
	recipients [][]ports.Recipient
}

func (p *capturePublisher) Publish(event ports.Event, recipients []ports.Recipient) {
	p.events = append(p.events, event)
	p.recipients = append(p.recipients, recipients)
}

var errGatewayDown = errors.New("gateway timeout")
