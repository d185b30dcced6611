package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/events"
	"github.com/ledgerdesk/backoffice/internal/repository"
	"github.com/ledgerdesk/backoffice/internal/repository/gormrepo"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

type ticketFixture struct {
	svc       *TicketService
	companies repository.CompanyRepository
	users     repository.UserRepository
	tickets   repository.TicketRepository
	events    *recordedEvents
	clock     time.Time
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tickets.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := gormrepo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	rec := &recordedEvents{}
	dispatcher.Subscribe(events.EventTicketCreated, rec.handle)
	dispatcher.Subscribe(events.EventTicketsResolved, rec.handle)

	f := &ticketFixture{
		companies: gormrepo.NewCompanyRepository(db),
		users:     gormrepo.NewUserRepository(db),
		tickets:   gormrepo.NewTicketRepository(db),
		events:    rec,
		clock:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:  f.tickets,
		CompanyRepo: f.companies,
		UserRepo:    f.users,
		Dispatcher:  dispatcher,
	})
	return f
}

func (f *ticketFixture) company(t *testing.T, name string) int64 {
	t.Helper()
	c := domain.Company{Name: name}
	if err := f.companies.Create(context.Background(), &c); err != nil {
		t.Fatalf("create company: %v", err)
	}
	return c.ID
}

// user seeds users with strictly increasing creation times.
func (f *ticketFixture) user(t *testing.T, companyID int64, role domain.UserRole, name string) int64 {
	t.Helper()
	f.clock = f.clock.Add(time.Minute)
	u := domain.User{Name: name, Role: role, CompanyID: companyID, CreatedAt: f.clock}
	if err := f.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func (f *ticketFixture) create(t *testing.T, ticketType domain.TicketType, companyID int64) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: string(ticketType), CompanyID: companyID})
	if err != nil {
		t.Fatalf("create %s: %v", ticketType, err)
	}
	return ticket
}

func expectDomainError(t *testing.T, err error, code, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	de := apperrors.ToDomainError(err)
	if de.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, de.Code, err)
	}
	if message != "" && de.Message != message {
		t.Fatalf("expected message %q, got %q", message, de.Message)
	}
}

func TestManagementReportAssignsNewestAccountant(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")
	f.user(t, company, domain.UserRoleAccountant, "first")
	newest := f.user(t, company, domain.UserRoleAccountant, "second")

	ticket := f.create(t, domain.TicketTypeManagementReport, company)
	if ticket.AssigneeID != newest {
		t.Fatalf("expected assignee %d, got %d", newest, ticket.AssigneeID)
	}
	if ticket.Category != domain.TicketCategoryAccounting || ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("unexpected ticket %+v", ticket)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != events.EventTicketCreated {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestNoAssigneeWithRole(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")
	f.user(t, company, domain.UserRoleDirector, "boss")

	_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "managementReport", CompanyID: company})
	expectDomainError(t, err, apperrors.CodeConflict, "Cannot find an assignee with the required role.")
}

func TestRegistrationAddressChangeRules(t *testing.T) {
	t.Run("multiple secretaries", func(t *testing.T) {
		f := newTicketFixture(t)
		company := f.company(t, "Acme")
		f.user(t, company, domain.UserRoleCorporateSecretary, "s1")
		f.user(t, company, domain.UserRoleCorporateSecretary, "s2")
		_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "registrationAddressChange", CompanyID: company})
		expectDomainError(t, err, apperrors.CodeConflict, "Multiple secretaries found.")
	})

	t.Run("falls back to director", func(t *testing.T) {
		f := newTicketFixture(t)
		company := f.company(t, "Acme")
		director := f.user(t, company, domain.UserRoleDirector, "d1")
		ticket := f.create(t, domain.TicketTypeRegistrationAddressChange, company)
		if ticket.AssigneeID != director || ticket.Category != domain.TicketCategoryCorporate {
			t.Fatalf("unexpected ticket %+v", ticket)
		}
	})

	t.Run("multiple directors on fallback", func(t *testing.T) {
		f := newTicketFixture(t)
		company := f.company(t, "Acme")
		f.user(t, company, domain.UserRoleDirector, "d1")
		f.user(t, company, domain.UserRoleDirector, "d2")
		_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "registrationAddressChange", CompanyID: company})
		expectDomainError(t, err, apperrors.CodeConflict, "Multiple directors found.")
	})

	t.Run("duplicate per company", func(t *testing.T) {
		f := newTicketFixture(t)
		company := f.company(t, "Acme")
		other := f.company(t, "Other")
		f.user(t, company, domain.UserRoleCorporateSecretary, "s1")
		f.user(t, other, domain.UserRoleCorporateSecretary, "s2")
		f.create(t, domain.TicketTypeRegistrationAddressChange, company)

		_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "registrationAddressChange", CompanyID: company})
		expectDomainError(t, err, apperrors.CodeConflict, "Company already has a registrationAddressChange ticket")

		f.create(t, domain.TicketTypeRegistrationAddressChange, other)
		all, err := f.svc.ListTickets(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(all))
		}
	})
}

func TestStrikeOffResolvesCompanyTickets(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")
	other := f.company(t, "Other")
	f.user(t, company, domain.UserRoleAccountant, "a1")
	f.user(t, company, domain.UserRoleDirector, "d1")
	f.user(t, other, domain.UserRoleAccountant, "a2")

	first := f.create(t, domain.TicketTypeManagementReport, company)
	second := f.create(t, domain.TicketTypeManagementReport, company)
	foreign := f.create(t, domain.TicketTypeManagementReport, other)
	strike := f.create(t, domain.TicketTypeStrikeOff, company)
	if strike.Category != domain.TicketCategoryManagement || strike.Status != domain.TicketStatusOpen {
		t.Fatalf("unexpected strike-off ticket %+v", strike)
	}

	all, err := f.svc.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := map[int64]domain.TicketStatus{
		first.ID:   domain.TicketStatusResolved,
		second.ID:  domain.TicketStatusResolved,
		foreign.ID: domain.TicketStatusOpen,
		strike.ID:  domain.TicketStatusOpen,
	}
	for _, tk := range all {
		if tk.Status != want[tk.ID] {
			t.Fatalf("ticket %d: expected %s, got %s", tk.ID, want[tk.ID], tk.Status)
		}
		if tk.Company == nil || tk.Assignee == nil {
			t.Fatalf("ticket %d missing relations", tk.ID)
		}
	}

	types := f.events.types()
	if types[len(types)-2] != events.EventTicketsResolved {
		t.Fatalf("expected tickets_resolved before ticket_created, got %v", types)
	}
}

type failingResolveRepo struct {
	repository.TicketRepository
}

func (failingResolveRepo) ResolveOpenByCompany(context.Context, int64, int64) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestStrikeOffRollsBackWhenResolveFails(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")
	f.user(t, company, domain.UserRoleAccountant, "a1")
	f.user(t, company, domain.UserRoleDirector, "d1")
	report := f.create(t, domain.TicketTypeManagementReport, company)

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  failingResolveRepo{f.tickets},
		CompanyRepo: f.companies,
		UserRepo:    f.users,
	})
	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{Type: "strikeOff", CompanyID: company})
	expectDomainError(t, err, apperrors.CodeInternal, "")

	left, err := f.tickets.ListWithFilter(context.Background(), repository.TicketFilter{CompanyID: &company})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].ID != report.ID || left[0].Status != domain.TicketStatusOpen {
		t.Fatalf("expected only the open management report, got %+v", left)
	}
}

func TestStrikeOffMultipleDirectors(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")
	f.user(t, company, domain.UserRoleDirector, "d1")
	f.user(t, company, domain.UserRoleDirector, "d2")
	_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "strikeOff", CompanyID: company})
	expectDomainError(t, err, apperrors.CodeConflict, "Multiple directors found.")
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	company := f.company(t, "Acme")

	_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "payroll", CompanyID: company})
	expectDomainError(t, err, apperrors.CodeValidation, "unsupported ticket type")

	_, err = f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "strikeOff", CompanyID: 0})
	expectDomainError(t, err, apperrors.CodeValidation, "")

	_, err = f.svc.CreateTicket(context.Background(), TicketCreateInput{Type: "strikeOff", CompanyID: company + 100})
	expectDomainError(t, err, apperrors.CodeNotFound, "company not found")
}

func TestListTicketsEmpty(t *testing.T) {
	f := newTicketFixture(t)
	all, err := f.svc.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", all)
	}
}
